package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"servicedesk/internal/model"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

type fakeGenerator struct {
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, reportID string) (*model.GeneratedReport, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.GeneratedReport{
		ReportID:    reportID,
		Name:        "Weekly engineering",
		Type:        model.ReportTypeTask,
		GeneratedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Data:        map[string]interface{}{"count": 3},
	}, nil
}

type dispatchFixture struct {
	svc       *DispatchService
	reports   *fakeReportRepo
	activity  *fakeActivityRepo
	mailer    *fakeMailer
	generator *fakeGenerator
	clock     time.Time
}

func newDispatchFixture() *dispatchFixture {
	f := &dispatchFixture{
		reports:   newFakeReportRepo(),
		activity:  &fakeActivityRepo{},
		mailer:    &fakeMailer{},
		generator: &fakeGenerator{},
		clock:     ts(10, 12),
	}
	f.svc = NewDispatchService(f.reports, f.activity, f.generator, f.mailer, time.Minute)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *dispatchFixture) addReport(id string, lastSent *time.Time) *mysqlModel.ScheduledReport {
	report := &mysqlModel.ScheduledReport{
		ReportID:  id,
		Name:      "Weekly engineering",
		Type:      "task",
		Schedule:  mysqlModel.Schedule{Cron: "0 9 * * *", RecipientEmail: "lead@example.com", LastSent: lastSent},
		IsActive:  true,
		CreatedBy: "admin",
		CreatedAt: ts(1, 0),
	}
	f.reports.reports[id] = report
	return report
}

func TestEvaluateDueReportsSendsAndAdvancesLastSent(t *testing.T) {
	f := newDispatchFixture()
	f.addReport("r1", nil)

	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Len(t, f.mailer.sent, 1)
	require.Equal(t, "lead@example.com", f.mailer.sent[0].to)
	require.Contains(t, f.mailer.sent[0].subject, "Weekly engineering")
	require.Contains(t, f.mailer.sent[0].body, `"count": 3`)

	got := f.reports.reports["r1"]
	require.NotNil(t, got.Schedule.LastSent)
	require.True(t, got.Schedule.LastSent.Equal(ts(10, 12)))
}

func TestEvaluateDueReportsAtMostOncePerPeriod(t *testing.T) {
	f := newDispatchFixture()
	f.addReport("r1", nil)

	// first tick delivers
	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Len(t, f.mailer.sent, 1)

	// second tick in the same period does not
	f.clock = ts(10, 13)
	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Len(t, f.mailer.sent, 1)

	// next period's fire instant is due again
	f.clock = ts(11, 9)
	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Len(t, f.mailer.sent, 2)
}

func TestEvaluateDueReportsSkipsNotDue(t *testing.T) {
	f := newDispatchFixture()
	sent := ts(10, 9)
	f.addReport("r1", &sent)
	f.clock = ts(10, 10) // next fire is tomorrow 09:00

	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Empty(t, f.mailer.sent)
	require.Zero(t, f.generator.calls)
}

func TestEvaluateDueReportsSkipsInactive(t *testing.T) {
	f := newDispatchFixture()
	report := f.addReport("r1", nil)
	report.IsActive = false

	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Empty(t, f.mailer.sent)
}

func TestEvaluateDueReportsGenerationFailureLeavesLastSent(t *testing.T) {
	f := newDispatchFixture()
	f.addReport("r1", nil)
	f.generator.err = errors.New("snapshot store down")

	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Empty(t, f.mailer.sent)
	require.Nil(t, f.reports.reports["r1"].Schedule.LastSent)
}

func TestEvaluateDueReportsSendFailureRetriedNextTick(t *testing.T) {
	f := newDispatchFixture()
	f.addReport("r1", nil)
	f.mailer.err = errors.New("smtp refused")

	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Nil(t, f.reports.reports["r1"].Schedule.LastSent)

	// mail recovers; the same fire instant is still due
	f.mailer.err = nil
	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Len(t, f.mailer.sent, 1)
	require.NotNil(t, f.reports.reports["r1"].Schedule.LastSent)
}

func TestEvaluateDueReportsBadCronSkipped(t *testing.T) {
	f := newDispatchFixture()
	report := f.addReport("r1", nil)
	report.Schedule.Cron = "garbage"
	f.addReport("r2", nil)

	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Len(t, f.mailer.sent, 1)
}

func TestDispatchRecordsActivity(t *testing.T) {
	f := newDispatchFixture()
	f.addReport("r1", nil)

	require.NoError(t, f.svc.EvaluateDueReports(context.Background()))
	require.Len(t, f.activity.entries, 1)
	require.Equal(t, "report_dispatched", f.activity.entries[0].Action)
	require.Equal(t, "r1", f.activity.entries[0].EntityID)
}

func TestDispatchByID(t *testing.T) {
	f := newDispatchFixture()
	sent := ts(10, 9)
	f.addReport("r1", &sent)

	// bypasses the due check entirely
	require.NoError(t, f.svc.DispatchByID(context.Background(), "r1"))
	require.Len(t, f.mailer.sent, 1)

	require.ErrorIs(t, f.svc.DispatchByID(context.Background(), "nope"), model.ErrReportNotFound)
}
