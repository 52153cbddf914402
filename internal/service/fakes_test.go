package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"servicedesk/pkg/store/mysql"
	mysqlModel "servicedesk/pkg/store/mysql/model"
)

// In-memory stand-ins for the mysql repositories. Error fields, when set, are
// returned from every call to simulate storage failures.

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks []*mysqlModel.Task
	err   error
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *mysqlModel.Task) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeTaskRepo) Query(ctx context.Context, filter mysql.TaskFilter) ([]*mysqlModel.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.Task
	for _, t := range f.tasks {
		if filter.DepartmentID != "" && t.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.AssignedToID != "" && t.AssignedToID != filter.AssignedToID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if !filter.CreatedFrom.IsZero() && t.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && t.CreatedAt.After(filter.CreatedTo) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByDepartment(ctx context.Context, departmentID string, asOf time.Time) ([]*mysqlModel.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.Task
	for _, t := range f.tasks {
		if t.DepartmentID == departmentID && !t.CreatedAt.After(asOf) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByAssignee(ctx context.Context, userID string, asOf time.Time) ([]*mysqlModel.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.Task
	for _, t := range f.tasks {
		if t.AssignedToID == userID && !t.CreatedAt.After(asOf) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) CountCreatedBetween(ctx context.Context, departmentID string, from, to time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.tasks {
		if t.DepartmentID == departmentID && !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeTaskRepo) CountCompletedBetween(ctx context.Context, departmentID string, from, to time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.tasks {
		if t.DepartmentID == departmentID && t.Status == "completed" &&
			!t.UpdatedAt.Before(from) && t.UpdatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	deptRows  []*mysqlModel.DepartmentTaskMetrics
	userRows  []*mysqlModel.UserPerformanceMetrics
	analytics []*mysqlModel.DepartmentAnalytics
	upsertErr error
}

func (f *fakeSnapshotRepo) UpsertDepartmentMetrics(ctx context.Context, m *mysqlModel.DepartmentTaskMetrics) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.deptRows {
		if row.DepartmentID == m.DepartmentID && row.SnapshotDate.Equal(m.SnapshotDate) {
			f.deptRows[i] = m
			return nil
		}
	}
	f.deptRows = append(f.deptRows, m)
	return nil
}

func (f *fakeSnapshotRepo) UpsertUserPerformance(ctx context.Context, m *mysqlModel.UserPerformanceMetrics) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.userRows {
		if row.UserID == m.UserID && row.SnapshotDate.Equal(m.SnapshotDate) {
			f.userRows[i] = m
			return nil
		}
	}
	f.userRows = append(f.userRows, m)
	return nil
}

func (f *fakeSnapshotRepo) UpsertDepartmentAnalytics(ctx context.Context, m *mysqlModel.DepartmentAnalytics) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.analytics {
		if row.DepartmentID == m.DepartmentID && row.SnapshotDate.Equal(m.SnapshotDate) {
			f.analytics[i] = m
			return nil
		}
	}
	f.analytics = append(f.analytics, m)
	return nil
}

func (f *fakeSnapshotRepo) ListDepartmentMetrics(ctx context.Context, departmentID string, start, end time.Time) ([]*mysqlModel.DepartmentTaskMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.DepartmentTaskMetrics
	for _, row := range f.deptRows {
		if row.DepartmentID == departmentID && !row.SnapshotDate.Before(start) && !row.SnapshotDate.After(end) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) ListUserPerformance(ctx context.Context, userID string, start, end time.Time) ([]*mysqlModel.UserPerformanceMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.UserPerformanceMetrics
	for _, row := range f.userRows {
		if row.UserID == userID && !row.SnapshotDate.Before(start) && !row.SnapshotDate.After(end) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) ListDepartmentAnalytics(ctx context.Context, departmentID string, start, end time.Time) ([]*mysqlModel.DepartmentAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.DepartmentAnalytics
	for _, row := range f.analytics {
		if row.DepartmentID == departmentID && !row.SnapshotDate.Before(start) && !row.SnapshotDate.After(end) {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeDirectoryRepo struct {
	departments []*mysqlModel.Department
	users       []*mysqlModel.User
	err         error
}

func (f *fakeDirectoryRepo) GetDepartment(ctx context.Context, departmentID string) (*mysqlModel.Department, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.departments {
		if d.DepartmentID == departmentID {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectoryRepo) ListDepartments(ctx context.Context) ([]*mysqlModel.Department, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.departments, nil
}

func (f *fakeDirectoryRepo) GetUser(ctx context.Context, userID string) (*mysqlModel.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectoryRepo) ListUsersInDepartment(ctx context.Context, departmentID string) ([]*mysqlModel.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*mysqlModel.User
	for _, u := range f.users {
		if u.DepartmentID == departmentID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeReportRepo struct {
	mu          sync.Mutex
	reports     map[string]*mysqlModel.ScheduledReport
	lastSentErr error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*mysqlModel.ScheduledReport)}
}

func (f *fakeReportRepo) Create(ctx context.Context, report *mysqlModel.ScheduledReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports[report.ReportID] = report
	return nil
}

func (f *fakeReportRepo) Get(ctx context.Context, reportID string) (*mysqlModel.ScheduledReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reports[reportID], nil
}

func (f *fakeReportRepo) List(ctx context.Context) ([]*mysqlModel.ScheduledReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.ScheduledReport
	for _, r := range f.reports {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReportRepo) ListActive(ctx context.Context) ([]*mysqlModel.ScheduledReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.ScheduledReport
	for _, r := range f.reports {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) Update(ctx context.Context, report *mysqlModel.ScheduledReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports[report.ReportID] = report
	return nil
}

func (f *fakeReportRepo) UpdateLastSent(ctx context.Context, reportID string, sentAt time.Time) error {
	if f.lastSentErr != nil {
		return f.lastSentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reports[reportID]; ok {
		t := sentAt
		r.Schedule.LastSent = &t
	}
	return nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, reportID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reports, reportID)
	return nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*mysqlModel.ActivityLog
	err     error
}

func (f *fakeActivityRepo) Append(ctx context.Context, entry *mysqlModel.ActivityLog) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeActivityRepo) ListByUser(ctx context.Context, userID string, start, end time.Time) ([]*mysqlModel.ActivityLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mysqlModel.ActivityLog
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeAllocator struct {
	next int
	err  error
}

func (f *fakeAllocator) Next(ctx context.Context, prefix string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.next++
	return fmt.Sprintf("%s-20260830-%d", prefix, f.next), nil
}
