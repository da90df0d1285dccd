// Package auth provides authentication and authorization for the dashboard.
//
// # Authentication
//
// LocalProvider authenticates users against the users table. Passwords are
// stored as Argon2id hashes.
//
// # Authorization
//
// Every user has one stored role. A RoleOverride row for the user's e-mail
// address replaces that role when permissions are evaluated; overrides are
// managed through Service.GrantOverride and Service.RevokeOverride and each one
// records who created it and why. Roles carry permissions in resource.action
// form (see permissions.go).
//
// # Middleware
//
// RequirePermission guards fiber routes. It expects the authenticated user in
// fiber.Locals under LocalsUser, which the web session middleware sets.
//
//	api.Put("/settings/:key", auth.RequirePermission(authService, auth.PermSettingsUpdate), h.Update)
//
// # Actors
//
// Mutations are attributed to the actor stored in the request context with
// WithActor. ContextIdentity exposes it to services that need an Identity.
package auth
