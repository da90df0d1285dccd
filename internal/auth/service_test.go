package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eter-store/eter-admin/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

// seedRoles seeds the default roles and permissions and returns roles by name.
func seedRoles(t *testing.T, db *gorm.DB) map[string]models.Role {
	t.Helper()

	require.NoError(t, SeedRBAC(context.Background(), db))

	var roles []models.Role
	require.NoError(t, db.Find(&roles).Error)

	byName := make(map[string]models.Role, len(roles))
	for _, r := range roles {
		byName[r.Name] = r
	}

	return byName
}

func createUser(t *testing.T, db *gorm.DB, username, email string, roleID uint) *models.User {
	t.Helper()

	user, err := NewLocalProvider(db).CreateUser(context.Background(), NewUser{
		Username: username,
		Email:    email,
		Password: "s3cret-pass",
		RoleID:   roleID,
	})
	require.NoError(t, err)

	return user
}

func TestHasPermission(t *testing.T) {
	db := setupTestDB(t)
	roles := seedRoles(t, db)
	svc := NewService(db)
	ctx := context.Background()

	staff := createUser(t, db, "staff", "staff@eter.store", roles[models.RoleStaff].ID)
	reseller := createUser(t, db, "reseller", "reseller@eter.store", roles[models.RoleReseller].ID)

	testCases := []struct {
		name       string
		user       *models.User
		permission string
		expected   bool
	}{
		{"staff can update settings", staff, PermSettingsUpdate, true},
		{"staff cannot roll back", staff, PermSettingsRollback, false},
		{"reseller views academy", reseller, PermAcademyView, true},
		{"reseller cannot read settings", reseller, PermSettingsRead, false},
		{"unknown permission", staff, "settings.delete", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			has, err := svc.HasPermission(ctx, tc.user, tc.permission)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, has)
		})
	}
}

func TestHasPermissionNilUser(t *testing.T) {
	svc := NewService(setupTestDB(t))

	_, err := svc.HasPermission(context.Background(), nil, PermSettingsRead)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRoleOverride(t *testing.T) {
	db := setupTestDB(t)
	roles := seedRoles(t, db)
	svc := NewService(db)
	ctx := context.Background()

	user := createUser(t, db, "maria", "Maria@Eter.Store", roles[models.RoleCustomer].ID)

	has, err := svc.HasPermission(ctx, user, PermSettingsRollback)
	require.NoError(t, err)
	assert.False(t, has)

	override, err := svc.GrantOverride(ctx, "  MARIA@eter.store", models.RoleAdmin, "on-call maintenance", "1")
	require.NoError(t, err)
	assert.Equal(t, "maria@eter.store", override.Email)
	assert.Equal(t, "1", override.CreatedBy)

	roleID, err := svc.EffectiveRoleID(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, roles[models.RoleAdmin].ID, roleID)

	has, err = svc.HasPermission(ctx, user, PermSettingsRollback)
	require.NoError(t, err)
	assert.True(t, has)

	perms, err := svc.GetUserPermissions(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []string{
		PermAcademyView, PermAdminRoles, PermSettingsRead, PermSettingsRollback, PermSettingsUpdate,
	}, perms)

	// granting again replaces the previous override
	_, err = svc.GrantOverride(ctx, "maria@eter.store", models.RoleStaff, "downgrade", "1")
	require.NoError(t, err)

	overrides, err := svc.ListOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, models.RoleStaff, overrides[0].Role.Name)

	require.NoError(t, svc.RevokeOverride(ctx, "maria@eter.store", "1"))

	roleID, err = svc.EffectiveRoleID(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, roles[models.RoleCustomer].ID, roleID)

	assert.ErrorIs(t, svc.RevokeOverride(ctx, "maria@eter.store", "1"), ErrOverrideNotFound)
}

func TestGrantOverrideValidation(t *testing.T) {
	db := setupTestDB(t)
	seedRoles(t, db)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.GrantOverride(ctx, "ops@eter.store", models.RoleAdmin, " ", "1")
	require.ErrorIs(t, err, ErrOverrideReasonEmpty)

	_, err = svc.GrantOverride(ctx, "ops@eter.store", "superuser", "reason", "1")
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = svc.GrantOverride(ctx, "", models.RoleAdmin, "reason", "1")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSeedRBACIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, SeedRBAC(ctx, db))
	require.NoError(t, SeedRBAC(ctx, db))

	var roles, perms, links int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.NoError(t, db.Model(&models.Permission{}).Count(&perms).Error)
	require.NoError(t, db.Model(&models.RolePermission{}).Count(&links).Error)

	assert.Equal(t, int64(len(DefaultRolePermissions())), roles)
	assert.Equal(t, int64(len(Permissions())), perms)

	var wantLinks int
	for _, names := range DefaultRolePermissions() {
		wantLinks += len(names)
	}

	assert.Equal(t, int64(wantLinks), links)
}

func TestEffectiveRole(t *testing.T) {
	db := setupTestDB(t)
	roles := seedRoles(t, db)
	svc := NewService(db)
	ctx := context.Background()

	user := createUser(t, db, "lucia", "lucia@eter.store", roles[models.RoleStaff].ID)

	role, err := svc.EffectiveRole(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, role.Name)

	_, err = svc.GrantOverride(ctx, "lucia@eter.store", models.RoleAdmin, "release week", "1")
	require.NoError(t, err)

	role, err = svc.EffectiveRole(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, roles[models.RoleAdmin].ID, role.ID)
	assert.Equal(t, models.RoleAdmin, role.Name)
}
