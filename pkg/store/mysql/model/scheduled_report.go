package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"servicedesk/internal/model"
)

// Schedule JSON column wrapper around the persisted schedule document
// ({"cron","recipientEmail","lastSent"}).
type Schedule model.ReportSchedule

// Scan implements sql.Scanner interface
func (s *Schedule) Scan(value interface{}) error {
	if value == nil {
		*s = Schedule{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan Schedule: unsupported type %T", value)
	}
	var doc model.ReportSchedule
	if err := json.Unmarshal(bytes, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal Schedule: %w", err)
	}
	*s = Schedule(doc)
	return nil
}

// Value implements driver.Valuer interface
func (s Schedule) Value() (driver.Value, error) {
	return json.Marshal(model.ReportSchedule(s))
}

// ScheduledReport MySQL model for scheduled report definitions. The schedule's
// lastSent field is mutated only by the dispatcher, and only after a confirmed
// delivery.
type ScheduledReport struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	ReportID   string    `gorm:"column:report_id;type:varchar(64);not null;uniqueIndex:idx_report_id_unique" json:"id"`
	Name       string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Type       string    `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Parameters JSONMap   `gorm:"column:parameters;type:json" json:"parameters"`
	Schedule   Schedule  `gorm:"column:schedule;type:json" json:"schedule"`
	IsActive   bool      `gorm:"column:is_active;default:true;index:idx_is_active" json:"is_active"`
	CreatedBy  string    `gorm:"column:created_by;type:varchar(64);not null" json:"created_by"`
	CreatedAt  time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for ScheduledReport
func (ScheduledReport) TableName() string {
	return "scheduled_reports"
}
