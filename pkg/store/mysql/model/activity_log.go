package model

import "time"

// ActivityLog immutable append-only audit record. Never updated or deleted by
// application code.
type ActivityLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     string    `gorm:"column:user_id;type:varchar(64);not null;index:idx_activity_user,priority:1" json:"user_id"`
	Action     string    `gorm:"column:action;type:varchar(64);not null" json:"action"`
	EntityType string    `gorm:"column:entity_type;type:varchar(64);not null" json:"entity_type"`
	EntityID   string    `gorm:"column:entity_id;type:varchar(64)" json:"entity_id"`
	Details    JSONMap   `gorm:"column:details;type:json" json:"details"`
	CreatedAt  time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3);index:idx_activity_user,priority:2" json:"created_at"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}
