package model

import (
	"time"
)

// ReportType scheduled report type
type ReportType string

const (
	ReportTypeTask       ReportType = "task"
	ReportTypeUser       ReportType = "user"
	ReportTypeDepartment ReportType = "department"
	ReportTypeCustom     ReportType = "custom"
)

// ValidReportType reports whether t is a known report type.
func ValidReportType(t string) bool {
	switch ReportType(t) {
	case ReportTypeTask, ReportTypeUser, ReportTypeDepartment, ReportTypeCustom:
		return true
	}
	return false
}

// ReportSchedule is the persisted schedule document attached to a scheduled
// report: a 5-field cron expression, the delivery recipient and the timestamp
// of the last confirmed delivery (nil if the report was never sent).
type ReportSchedule struct {
	Cron           string     `json:"cron"`
	RecipientEmail string     `json:"recipientEmail"`
	LastSent       *time.Time `json:"lastSent"`
}

// GeneratedReport is the result of running the report generator for one
// scheduled report: the report definition plus its type-specific data payload.
type GeneratedReport struct {
	ReportID   string                 `json:"report_id"`
	Name       string                 `json:"name"`
	Type       ReportType             `json:"type"`
	GeneratedAt time.Time             `json:"generated_at"`
	Data       map[string]interface{} `json:"data"`
}

// TrendPeriod granularity for task trend buckets
type TrendPeriod string

const (
	TrendPeriodDaily   TrendPeriod = "daily"
	TrendPeriodWeekly  TrendPeriod = "weekly"
	TrendPeriodMonthly TrendPeriod = "monthly"
)

// ValidTrendPeriod reports whether p is a known trend period.
func ValidTrendPeriod(p string) bool {
	switch TrendPeriod(p) {
	case TrendPeriodDaily, TrendPeriodWeekly, TrendPeriodMonthly:
		return true
	}
	return false
}

// TrendBucket created/completed task counts for one period bucket
type TrendBucket struct {
	Period    string `json:"period"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

// TrendSummary per-period task trend counts for one department
type TrendSummary struct {
	DepartmentID string        `json:"department_id"`
	Period       TrendPeriod   `json:"granularity"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	Buckets      []TrendBucket `json:"buckets"`
}
