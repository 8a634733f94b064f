package model

import "time"

// Action kinds recorded in the activity log.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
	ActionFieldUpdated  = "field_updated"
)

// ActivityLog ist ein reines Append-Protokoll; Einträge werden nie geändert
// oder gelöscht.
type ActivityLog struct {
	LogID      uint      `gorm:"column:log_id;primaryKey;autoIncrement"`
	AdminID    *uint     `gorm:"column:admin_id;index"`
	Action     string    `gorm:"column:action;type:varchar(50);not null"`
	EntityType string    `gorm:"column:entity_type;type:varchar(50);not null"`
	EntityID   string    `gorm:"column:entity_id;type:varchar(50);not null"`
	OldValue   string    `gorm:"column:old_value;type:text"`
	NewValue   string    `gorm:"column:new_value;type:text"`
	IPAddress  string    `gorm:"column:ip_address;type:varchar(64)"`
	UserAgent  string    `gorm:"column:user_agent;type:varchar(255)"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
