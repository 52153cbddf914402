package mysql

import (
	"context"
	"fmt"
	"time"

	"servicedesk/pkg/store/mysql/model"
)

// ActivityLogRepository appends and reads audit records. The table is
// append-only; there are no update or delete paths.
type ActivityLogRepository struct {
	ds *Datastore
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(ds *Datastore) *ActivityLogRepository {
	return &ActivityLogRepository{ds: ds}
}

// Append writes one activity record.
func (r *ActivityLogRepository) Append(ctx context.Context, entry *model.ActivityLog) error {
	if err := r.ds.DB(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's activity in a time range, oldest first.
func (r *ActivityLogRepository) ListByUser(ctx context.Context, userID string, start, end time.Time) ([]*model.ActivityLog, error) {
	var entries []*model.ActivityLog
	err := r.ds.DB(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, start, end).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activity log: %w", err)
	}
	return entries, nil
}
