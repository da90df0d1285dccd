package auth

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eter-store/eter-admin/internal/db/models"
)

// SeedRBAC creates the system roles and permissions and links them. Existing rows are kept,
// so it is safe to run on every start.
func SeedRBAC(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error { //nolint:wrapcheck
		perms := make(map[string]uint)

		for _, spec := range Permissions() {
			p := models.Permission{
				Name:        spec.Name,
				Resource:    spec.Resource,
				Action:      spec.Action,
				Description: spec.Description,
			}

			if err := tx.Where(models.Permission{Name: spec.Name}).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", spec.Name, err)
			}

			perms[spec.Name] = p.ID
		}

		for roleName, names := range DefaultRolePermissions() {
			r := models.Role{Name: roleName, IsSystem: true}

			if err := tx.Where(models.Role{Name: roleName}).FirstOrCreate(&r).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", roleName, err)
			}

			for _, name := range names {
				link := models.RolePermission{RoleID: r.ID, PermissionID: perms[name]}

				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
					return fmt.Errorf("failed to link %s to %s: %w", name, roleName, err)
				}
			}
		}

		return nil
	})
}
