package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/config"
	"github.com/eter-store/eter-admin/internal/db/controller/setting"
	"github.com/eter-store/eter-admin/internal/db/models"
)

// SystemActor is recorded as updated_by for seeded settings.
const SystemActor = "system"

// defaultSettings are written on first start for keys that do not exist yet.
func defaultSettings() []models.Setting {
	return []models.Setting{
		{Key: "store_name", Value: models.JSON(`"Éter Store"`), Category: models.CategoryGeneral},
		{Key: "support_email", Value: models.JSON(`"suporte@eter.store"`), Category: models.CategoryGeneral},
		{Key: "maintenance_mode", Value: models.JSON(`false`), Category: models.CategoryGeneral},
		{Key: "two_factor_required", Value: models.JSON(`false`), Category: models.CategorySecurity},
		{Key: "order_notifications", Value: models.JSON(`{"email":true,"push":false}`), Category: models.CategoryNotifications},
		{Key: "theme", Value: models.JSON(`"dark"`), Category: models.CategoryAppearance},
		{Key: "currency", Value: models.JSON(`"BRL"`), Category: models.CategoryBilling},
	}
}

// seed creates roles, permissions, the bootstrap admin and the default settings.
func seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if err := auth.SeedRBAC(ctx, db); err != nil {
		return err //nolint:wrapcheck
	}

	if err := seedAdmin(ctx, cfg, db); err != nil {
		return err
	}

	return seedSettings(ctx, db)
}

func seedAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if count > 0 || cfg.Admin.Username == "" {
		return nil
	}

	if cfg.Admin.Password == "" {
		log.Warn().Msg("no users and no admin password configured, skipping admin seed")
		return nil
	}

	role, err := auth.NewService(db).RoleByName(ctx, models.RoleAdmin)
	if err != nil {
		return err //nolint:wrapcheck
	}

	user, err := auth.NewLocalProvider(db).CreateUser(ctx, auth.NewUser{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		RoleID:   role.ID,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Warn().Str("username", user.Username).Msg("bootstrap admin created, change its password")

	return nil
}

func seedSettings(ctx context.Context, db *gorm.DB) error {
	for _, s := range defaultSettings() {
		_, err := setting.Get(ctx, db, s.Key)
		if err == nil {
			continue
		}

		if !errors.Is(err, setting.ErrSettingNotFound) {
			return err //nolint:wrapcheck
		}

		s.UpdatedBy = SystemActor
		if err = setting.Upsert(ctx, db, &s); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}
