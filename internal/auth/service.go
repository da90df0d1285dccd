package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eter-store/eter-admin/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// normalizeEmail is the form overrides are stored and looked up in.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EffectiveRoleID returns the role used for permission checks. An override for
// the user's e-mail wins over the stored role.
func (s *Service) EffectiveRoleID(ctx context.Context, user *models.User) (uint, error) {
	if user == nil {
		return 0, ErrUserNotFound
	}

	email := normalizeEmail(user.Email)
	if email == "" {
		return user.RoleID, nil
	}

	var override models.RoleOverride

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.RoleID, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to look up role override: %w", err)
	}

	return override.RoleID, nil
}

// EffectiveRole loads the role returned by EffectiveRoleID.
func (s *Service) EffectiveRole(ctx context.Context, user *models.User) (*models.Role, error) {
	roleID, err := s.EffectiveRoleID(ctx, user)
	if err != nil {
		return nil, err
	}

	if user.Role.ID == roleID && user.Role.Name != "" {
		return &user.Role, nil
	}

	var role models.Role

	err = s.db.WithContext(ctx).First(&role, roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get role %d: %w", roleID, err)
	}

	return &role, nil
}

// HasPermission checks if the user's effective role has a specific permission.
func (s *Service) HasPermission(ctx context.Context, user *models.User, permission string) (bool, error) {
	roleID, err := s.EffectiveRoleID(ctx, user)
	if err != nil {
		return false, err
	}

	var count int64

	err = s.db.WithContext(ctx).Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ? AND permissions.name = ?", roleID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}

	return count > 0, nil
}

// HasAnyPermission checks if a user has at least one of the given permissions.
func (s *Service) HasAnyPermission(ctx context.Context, user *models.User, permissions []string) (bool, error) {
	for _, perm := range permissions {
		has, err := s.HasPermission(ctx, user, perm)
		if err != nil {
			return false, err
		}

		if has {
			return true, nil
		}
	}

	return false, nil
}

// GetUserPermissions retrieves all permissions of the user's effective role, sorted by name.
func (s *Service) GetUserPermissions(ctx context.Context, user *models.User) ([]string, error) {
	roleID, err := s.EffectiveRoleID(ctx, user)
	if err != nil {
		return nil, err
	}

	var permissions []string

	err = s.db.WithContext(ctx).Table("permissions").
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	sort.Strings(permissions)

	return permissions, nil
}

// RoleByName looks up a role.
func (s *Service) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role

	err := s.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get role %s: %w", name, err)
	}

	return &role, nil
}

// GrantOverride assigns roleName to email regardless of the user's stored role.
// An existing override for the same address is replaced.
func (s *Service) GrantOverride(ctx context.Context, email, roleName, reason, actor string) (*models.RoleOverride, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrUserNotFound
	}

	if strings.TrimSpace(reason) == "" {
		return nil, ErrOverrideReasonEmpty
	}

	role, err := s.RoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	override := models.RoleOverride{
		Email:     email,
		RoleID:    role.ID,
		Reason:    reason,
		CreatedBy: actor,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errDel := tx.Where("email = ?", email).Delete(&models.RoleOverride{}).Error; errDel != nil {
			return errDel
		}

		return tx.Create(&override).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant role override: %w", err)
	}

	log.Warn().Str("email", email).Str("role", role.Name).Str("actor", actor).Str("reason", reason).
		Msg("role override granted")

	return &override, nil
}

// RevokeOverride removes the override for email.
func (s *Service) RevokeOverride(ctx context.Context, email, actor string) error {
	email = normalizeEmail(email)

	result := s.db.WithContext(ctx).Where("email = ?", email).Delete(&models.RoleOverride{})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke role override: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrOverrideNotFound
	}

	log.Warn().Str("email", email).Str("actor", actor).Msg("role override revoked")

	return nil
}

// ListOverrides returns every override ordered by e-mail.
func (s *Service) ListOverrides(ctx context.Context) ([]models.RoleOverride, error) {
	var overrides []models.RoleOverride

	if err := s.db.WithContext(ctx).Preload("Role").Order("email").Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("failed to list role overrides: %w", err)
	}

	return overrides, nil
}

// AssignRoleToUser assigns a stored role to a user.
func (s *Service) AssignRoleToUser(ctx context.Context, userID uint64, roleID uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}). //nolint:wrapcheck
								Where("id = ?", userID).
								Update("role_id", roleID).Error
}
