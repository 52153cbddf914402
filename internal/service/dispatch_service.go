package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"servicedesk/internal/model"
	"servicedesk/pkg/logger"
	"servicedesk/pkg/mail"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

type reportGenerator interface {
	Generate(ctx context.Context, reportID string) (*model.GeneratedReport, error)
}

var _ reportGenerator = (*ReportService)(nil)

// DispatchService evaluates scheduled report due times and delivers generated
// reports by mail. lastSent advances only after a confirmed delivery, which is
// what keeps delivery at most once per fire instant: a crash or send failure
// leaves lastSent untouched and the report due again on the next tick.
type DispatchService struct {
	reportRepo   scheduledReportRepository
	activityRepo activityLogRepository
	generator    reportGenerator
	mailer       mail.Sender

	reportTimeout time.Duration
	now           func() time.Time
}

// NewDispatchService creates a new dispatch service. reportTimeout bounds a
// single report's generate+send cycle.
func NewDispatchService(reportRepo scheduledReportRepository, activityRepo activityLogRepository, generator reportGenerator, mailer mail.Sender, reportTimeout time.Duration) *DispatchService {
	if reportTimeout <= 0 {
		reportTimeout = 2 * time.Minute
	}
	return &DispatchService{
		reportRepo:    reportRepo,
		activityRepo:  activityRepo,
		generator:     generator,
		mailer:        mailer,
		reportTimeout: reportTimeout,
		now:           time.Now,
	}
}

// EvaluateDueReports runs one scheduler tick: every active report whose next
// cron fire after max(lastSent, createdAt) is not in the future gets generated
// and delivered. A failing report is logged and skipped without touching its
// lastSent, so it stays due for the next tick.
func (s *DispatchService) EvaluateDueReports(ctx context.Context) error {
	now := s.now()
	reports, err := s.reportRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active reports: %w", err)
	}

	var dispatched, failed int
	for _, report := range reports {
		due, err := reportDue(report, now)
		if err != nil {
			logger.WarnCtx(ctx, "skipping report %s: bad schedule: %v", report.ReportID, err)
			continue
		}
		if !due {
			continue
		}
		if err := s.DispatchReport(ctx, report, now); err != nil {
			logger.ErrorCtx(ctx, "failed to dispatch report %s: %v", report.ReportID, err)
			failed++
			continue
		}
		dispatched++
	}
	if dispatched > 0 || failed > 0 {
		logger.InfoCtx(ctx, "report dispatch tick: %d sent, %d failed of %d active", dispatched, failed, len(reports))
	}
	return nil
}

// DispatchReport generates one report and mails it to the schedule recipient,
// then records the delivery. The whole cycle runs under the per-report timeout.
func (s *DispatchService) DispatchReport(ctx context.Context, report *mysqlModel.ScheduledReport, sentAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, s.reportTimeout)
	defer cancel()

	generated, err := s.generator.Generate(ctx, report.ReportID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Scheduled report: %s", generated.Name)
	body, err := formatReportBody(generated)
	if err != nil {
		return fmt.Errorf("failed to format report body: %w", err)
	}
	if err := s.mailer.Send(ctx, report.Schedule.RecipientEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send report mail: %w", err)
	}

	if err := s.reportRepo.UpdateLastSent(ctx, report.ReportID, sentAt); err != nil {
		// Delivery already happened; the report will be re-sent next tick.
		return fmt.Errorf("failed to record lastSent: %w", err)
	}

	if err := s.activityRepo.Append(ctx, &mysqlModel.ActivityLog{
		UserID:     report.CreatedBy,
		Action:     "report_dispatched",
		EntityType: "scheduled_report",
		EntityID:   report.ReportID,
		Details: mysqlModel.JSONMap{
			"recipient": report.Schedule.RecipientEmail,
			"type":      report.Type,
		},
	}); err != nil {
		logger.WarnCtx(ctx, "failed to log report dispatch for %s: %v", report.ReportID, err)
	}
	return nil
}

// DispatchByID loads a report and delivers it immediately, bypassing the due
// check. This is the on-demand path behind the dispatch endpoint.
func (s *DispatchService) DispatchByID(ctx context.Context, reportID string) error {
	report, err := s.reportRepo.Get(ctx, reportID)
	if err != nil {
		return fmt.Errorf("failed to get scheduled report: %w", err)
	}
	if report == nil {
		return model.ErrReportNotFound
	}
	return s.DispatchReport(ctx, report, s.now())
}

// reportDue computes whether a report's next cron fire has arrived. The fire
// base is lastSent, or the report's creation time if it was never sent; the
// next fire is strictly after the base and the report is due iff that instant
// is not after now.
func reportDue(report *mysqlModel.ScheduledReport, now time.Time) (bool, error) {
	sched, err := cron.ParseStandard(report.Schedule.Cron)
	if err != nil {
		return false, err
	}
	base := report.CreatedAt
	if report.Schedule.LastSent != nil && report.Schedule.LastSent.After(base) {
		base = *report.Schedule.LastSent
	}
	next := sched.Next(base)
	return !next.After(now), nil
}

func formatReportBody(report *model.GeneratedReport) (string, error) {
	data, err := json.MarshalIndent(report.Data, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Report: %s\nType: %s\nGenerated at: %s\n\n%s\n",
		report.Name, report.Type, report.GeneratedAt.Format(time.RFC3339), data), nil
}
