package models

import "time"

// Role names seeded on first start.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleReseller = "reseller"
	RoleCustomer = "customer"
)

// Role is a named set of permissions. A user has exactly one stored role; a
// RoleOverride for the user's e-mail replaces it at resolution time.
type Role struct {
	ID          uint   `gorm:"primaryKey"               json:"id"`
	Name        string `gorm:"unique;size:100;not null" json:"name"`
	Description string `gorm:"size:255"                 json:"description"`
	// IsSystem roles are seeded and cannot be deleted.
	IsSystem  bool      `gorm:"default:false" json:"is_system"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// Permission is a single resource.action grant, e.g. "settings.rollback".
type Permission struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Resource    string `gorm:"size:100;not null"`
	Action      string `gorm:"size:50;not null"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// RolePermission is the join table between roles and permissions.
type RolePermission struct {
	RoleID       uint       `gorm:"primaryKey;column:role_id"`
	PermissionID uint       `gorm:"primaryKey;column:permission_id"`
	Role         Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Permission   Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&Role{},
		&Permission{},
		&RolePermission{},
		&User{},
		&RoleOverride{},
		&Setting{},
		&SettingsHistory{},
	}
}
