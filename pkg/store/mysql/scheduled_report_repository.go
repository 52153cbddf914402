package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"servicedesk/pkg/store/mysql/model"
)

// ScheduledReportRepository handles scheduled report persistence in MySQL
type ScheduledReportRepository struct {
	ds *Datastore
}

// NewScheduledReportRepository creates a new scheduled report repository
func NewScheduledReportRepository(ds *Datastore) *ScheduledReportRepository {
	return &ScheduledReportRepository{ds: ds}
}

// Create creates a new scheduled report
func (r *ScheduledReportRepository) Create(ctx context.Context, report *model.ScheduledReport) error {
	return r.ds.DB(ctx).Create(report).Error
}

// Get retrieves a scheduled report by ID; nil when not found.
func (r *ScheduledReportRepository) Get(ctx context.Context, reportID string) (*model.ScheduledReport, error) {
	var report model.ScheduledReport
	err := r.ds.DB(ctx).Where("report_id = ?", reportID).First(&report).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scheduled report: %w", err)
	}
	return &report, nil
}

// List retrieves all scheduled reports, newest first.
func (r *ScheduledReportRepository) List(ctx context.Context) ([]*model.ScheduledReport, error) {
	var reports []*model.ScheduledReport
	err := r.ds.DB(ctx).Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled reports: %w", err)
	}
	return reports, nil
}

// ListActive retrieves active scheduled reports for dispatcher evaluation.
func (r *ScheduledReportRepository) ListActive(ctx context.Context) ([]*model.ScheduledReport, error) {
	var reports []*model.ScheduledReport
	err := r.ds.DB(ctx).Where("is_active = ?", true).Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active scheduled reports: %w", err)
	}
	return reports, nil
}

// Update replaces the mutable fields of a scheduled report.
func (r *ScheduledReportRepository) Update(ctx context.Context, report *model.ScheduledReport) error {
	result := r.ds.DB(ctx).Model(&model.ScheduledReport{}).
		Where("report_id = ?", report.ReportID).
		Updates(map[string]interface{}{
			"name":       report.Name,
			"type":       report.Type,
			"parameters": report.Parameters,
			"schedule":   report.Schedule,
			"is_active":  report.IsActive,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update scheduled report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("scheduled report not found: report_id=%s", report.ReportID)
	}
	return nil
}

// UpdateLastSent persists the delivery bookkeeping timestamp. The schedule
// document is rewritten as a whole; only the dispatcher calls this.
func (r *ScheduledReportRepository) UpdateLastSent(ctx context.Context, reportID string, sentAt time.Time) error {
	report, err := r.Get(ctx, reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("scheduled report not found: report_id=%s", reportID)
	}

	report.Schedule.LastSent = &sentAt
	result := r.ds.DB(ctx).Model(&model.ScheduledReport{}).
		Where("report_id = ?", reportID).
		Updates(map[string]interface{}{
			"schedule":   report.Schedule,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update last sent: %w", result.Error)
	}
	return nil
}

// Delete removes a scheduled report
func (r *ScheduledReportRepository) Delete(ctx context.Context, reportID string) error {
	return r.ds.DB(ctx).Where("report_id = ?", reportID).Delete(&model.ScheduledReport{}).Error
}
