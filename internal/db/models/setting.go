// Package models contains database model definitions.
package models

import "time"

// Category groups settings for filtering on the dashboard.
type Category string

const (
	// CategoryGeneral holds store wide settings like name and contact data.
	CategoryGeneral Category = "general"
	// CategorySecurity holds authentication and access related settings.
	CategorySecurity Category = "security"
	// CategoryNotifications holds notification delivery settings.
	CategoryNotifications Category = "notifications"
	// CategoryAppearance holds storefront look and feel settings.
	CategoryAppearance Category = "appearance"
	// CategoryBilling holds payment and invoicing settings.
	CategoryBilling Category = "billing"
)

// Categories lists every known category in display order.
var Categories = []Category{ //nolint:gochecknoglobals
	CategoryGeneral,
	CategorySecurity,
	CategoryNotifications,
	CategoryAppearance,
	CategoryBilling,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Setting represents a configuration setting stored in the database.
// There is at most one row per key; it always holds the latest applied value.
type Setting struct {
	ID        uint64         `gorm:"primaryKey"                                 json:"-"`
	Key       string         `gorm:"column:setting_key;size:191;uniqueIndex;not null" json:"key"`
	Value     JSON           `gorm:"not null"                                   json:"value"`
	Category  Category       `gorm:"type:varchar(32);index;not null;default:'general'" json:"category"`
	UpdatedAt time.Time      `json:"updated_at"`
	UpdatedBy string         `gorm:"size:100"                                   json:"updated_by"`
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
