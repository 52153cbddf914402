package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"servicedesk/internal/model"
	"servicedesk/pkg/logger"
)

const dateLayout = "2006-01-02"

// parseDateRange reads start_date/end_date query params. Missing params
// default to the trailing 30 days; the end date is extended to the end of its
// day so same-day snapshots are included.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)
	end := now

	if raw := c.Query("start_date"); raw != "" {
		v, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, model.ErrInvalidDateRange
		}
		start = v
	}
	if raw := c.Query("end_date"); raw != "" {
		v, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, model.ErrInvalidDateRange
		}
		end = v.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, model.ErrInvalidDateRange
	}
	return start, end, nil
}

// respondError maps service errors onto HTTP statuses. Validation errors are
// the caller's fault, missing scopes are 404, everything else is logged as a
// server failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidDateRange),
		errors.Is(err, model.ErrInvalidReportType),
		errors.Is(err, model.ErrInvalidSchedule):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrDepartmentNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.ErrorCtx(c.Request.Context(), "request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
