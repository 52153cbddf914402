package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"servicedesk/internal/model"
	"servicedesk/pkg/store/mysql"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

// CustomReportFunc builds the data payload of a custom report from its stored
// parameters.
type CustomReportFunc func(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error)

// ReportService owns scheduled report definitions and turns them into
// generated reports.
type ReportService struct {
	reportRepo   scheduledReportRepository
	taskRepo     taskRepository
	activityRepo activityLogRepository
	analytics    *AnalyticsService

	custom map[string]CustomReportFunc
	now    func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reportRepo scheduledReportRepository, taskRepo taskRepository, activityRepo activityLogRepository, analyticsService *AnalyticsService) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		analytics:    analyticsService,
		custom:       make(map[string]CustomReportFunc),
		now:          time.Now,
	}
}

// RegisterCustom registers a named provider for custom reports. Reports whose
// parameters carry {"provider": name} are rendered by fn.
func (s *ReportService) RegisterCustom(name string, fn CustomReportFunc) {
	s.custom[name] = fn
}

// Create validates and persists a new scheduled report definition.
func (s *ReportService) Create(ctx context.Context, report *mysqlModel.ScheduledReport) error {
	if !model.ValidReportType(report.Type) {
		return model.ErrInvalidReportType
	}
	if err := validateSchedule(model.ReportSchedule(report.Schedule)); err != nil {
		return err
	}
	if report.ReportID == "" {
		report.ReportID = uuid.NewString()
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return fmt.Errorf("failed to create scheduled report: %w", err)
	}
	return nil
}

// Get returns one scheduled report definition.
func (s *ReportService) Get(ctx context.Context, reportID string) (*mysqlModel.ScheduledReport, error) {
	report, err := s.reportRepo.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled report: %w", err)
	}
	if report == nil {
		return nil, model.ErrReportNotFound
	}
	return report, nil
}

// List returns all scheduled report definitions.
func (s *ReportService) List(ctx context.Context) ([]*mysqlModel.ScheduledReport, error) {
	return s.reportRepo.List(ctx)
}

// Update validates and persists changes to a scheduled report definition. The
// schedule's lastSent is carried over unchanged; only the dispatcher advances it.
func (s *ReportService) Update(ctx context.Context, report *mysqlModel.ScheduledReport) error {
	if !model.ValidReportType(report.Type) {
		return model.ErrInvalidReportType
	}
	if err := validateSchedule(model.ReportSchedule(report.Schedule)); err != nil {
		return err
	}
	existing, err := s.Get(ctx, report.ReportID)
	if err != nil {
		return err
	}
	report.Schedule.LastSent = existing.Schedule.LastSent
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return fmt.Errorf("failed to update scheduled report: %w", err)
	}
	return nil
}

// Delete removes a scheduled report definition.
func (s *ReportService) Delete(ctx context.Context, reportID string) error {
	if _, err := s.Get(ctx, reportID); err != nil {
		return err
	}
	return s.reportRepo.Delete(ctx, reportID)
}

// Generate runs the generator for one scheduled report and returns the full
// report document. A missing report or an unknown type fails the whole run;
// there are no partial results.
func (s *ReportService) Generate(ctx context.Context, reportID string) (*model.GeneratedReport, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	params := map[string]interface{}(report.Parameters)
	if params == nil {
		params = map[string]interface{}{}
	}

	var data map[string]interface{}
	switch model.ReportType(report.Type) {
	case model.ReportTypeTask:
		data, err = s.generateTaskReport(ctx, params)
	case model.ReportTypeUser:
		data, err = s.generateUserReport(ctx, params)
	case model.ReportTypeDepartment:
		data, err = s.generateDepartmentReport(ctx, params)
	case model.ReportTypeCustom:
		data, err = s.generateCustomReport(ctx, params)
	default:
		return nil, model.ErrInvalidReportType
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s report %s: %w", report.Type, reportID, err)
	}

	return &model.GeneratedReport{
		ReportID:    report.ReportID,
		Name:        report.Name,
		Type:        model.ReportType(report.Type),
		GeneratedAt: s.now(),
		Data:        data,
	}, nil
}

func (s *ReportService) generateTaskReport(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	start, end := s.paramRange(params)
	filter := mysql.TaskFilter{
		DepartmentID: paramString(params, "departmentId"),
		Status:       paramString(params, "status"),
		Priority:     paramString(params, "priority"),
		CreatedFrom:  start,
		CreatedTo:    end,
	}
	tasks, err := s.taskRepo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	}, nil
}

func (s *ReportService) generateUserReport(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	userID := paramString(params, "userId")
	start, end := s.paramRange(params)

	performance, err := s.analytics.GetUserPerformanceMetrics(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	activity, err := s.activityRepo.ListByUser(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"performance": performance,
		"activityLog": activity,
	}, nil
}

func (s *ReportService) generateDepartmentReport(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	departmentID := paramString(params, "departmentId")
	start, end := s.paramRange(params)

	metrics, err := s.analytics.GetDepartmentMetrics(ctx, departmentID, start, end)
	if err != nil {
		return nil, err
	}
	deptAnalytics, err := s.analytics.GetDepartmentAnalytics(ctx, departmentID, start, end)
	if err != nil {
		return nil, err
	}
	trends, err := s.analytics.CalculateTaskTrends(ctx, departmentID, model.TrendPeriodMonthly, start, end)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"metrics":   metrics,
		"analytics": deptAnalytics,
		"trends":    trends,
	}, nil
}

func (s *ReportService) generateCustomReport(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	if name := paramString(params, "provider"); name != "" {
		fn, ok := s.custom[name]
		if !ok {
			return nil, fmt.Errorf("unknown custom report provider %q", name)
		}
		return fn(ctx, params)
	}
	return map[string]interface{}{"parameters": params}, nil
}

// paramRange reads startDate/endDate (YYYY-MM-DD) from stored parameters,
// defaulting to the trailing 30 days when absent or malformed.
func (s *ReportService) paramRange(params map[string]interface{}) (time.Time, time.Time) {
	now := s.now()
	start := now.AddDate(0, 0, -30)
	end := now
	if v, err := time.Parse("2006-01-02", paramString(params, "startDate")); err == nil {
		start = v
	}
	if v, err := time.Parse("2006-01-02", paramString(params, "endDate")); err == nil {
		// inclusive end of day
		end = v.AddDate(0, 0, 1)
	}
	return start, end
}

func paramString(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func validateSchedule(schedule model.ReportSchedule) error {
	if schedule.RecipientEmail == "" {
		return fmt.Errorf("%w: recipient email required", model.ErrInvalidSchedule)
	}
	if _, err := cron.ParseStandard(schedule.Cron); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSchedule, err)
	}
	return nil
}
