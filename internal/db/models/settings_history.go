package models

import (
	"bytes"
	"time"
)

// SettingsHistory is one entry of the append-only settings audit trail.
// Entries are written once per applied change (rollbacks included) and never updated.
type SettingsHistory struct {
	// ID is generated by the database and exposed as the history id.
	ID uint64 `gorm:"primaryKey" json:"id,string"`
	// Key references the changed setting. There is no foreign key because the
	// setting may be removed while its history is kept.
	Key string `gorm:"column:setting_key;size:191;index;not null" json:"key"`
	// OldValue is NULL when the key did not exist before the change.
	OldValue JSON `json:"old_value"`
	// NewValue is the value applied by the change.
	NewValue JSON `json:"new_value"`
	// ChangedBy is the actor that applied the change.
	ChangedBy string `gorm:"size:100;not null" json:"changed_by"`
	// ChangedReason is a free text explanation.
	ChangedReason string `gorm:"size:255" json:"changed_reason"`
	// CreatedAt is set on insert and never touched again.
	CreatedAt time.Time `gorm:"index;autoCreateTime;<-:create" json:"created_at"`
}

// TableName specifies the database table name for the SettingsHistory model.
func (SettingsHistory) TableName() string {
	return "settings_history"
}

// HasOldValue reports whether the key existed before this change.
func (h *SettingsHistory) HasOldValue() bool {
	return len(h.OldValue) > 0 && !bytes.Equal(h.OldValue, []byte("null"))
}
