package model

import "errors"

// Sentinel errors matched with errors.Is across service and handler layers.
var (
	// ErrReportNotFound referenced scheduled report does not exist
	ErrReportNotFound = errors.New("scheduled report not found")

	// ErrInvalidReportType report type outside {task,user,department,custom}
	ErrInvalidReportType = errors.New("invalid report type")

	// ErrDepartmentNotFound referenced department does not exist
	ErrDepartmentNotFound = errors.New("department not found")

	// ErrUserNotFound referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidDateRange malformed or inverted date range
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidSchedule malformed cron expression or missing recipient
	ErrInvalidSchedule = errors.New("invalid report schedule")

	// ErrSequenceOverflow daily sequence space exhausted; fatal for entity
	// creation, never retried
	ErrSequenceOverflow = errors.New("sequence overflow")
)
