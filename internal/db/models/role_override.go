package models

import "time"

// RoleOverride grants a role to an e-mail address regardless of the role stored on the user.
// It is the allowlist used for emergency or maintenance access; every row names who added it and why.
type RoleOverride struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Email is stored lower-case and matched case-insensitively.
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	// RoleID is the role granted to the matching user.
	RoleID uint `gorm:"not null" json:"role_id"`
	Role   Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"role"`
	// Reason documents why the override exists.
	Reason string `gorm:"size:255;not null" json:"reason"`
	// CreatedBy is the actor that granted the override.
	CreatedBy string `gorm:"size:100;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the RoleOverride model.
func (RoleOverride) TableName() string {
	return "role_overrides"
}
