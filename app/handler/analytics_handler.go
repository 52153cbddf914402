package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servicedesk/internal/model"
	"servicedesk/internal/service"
	"servicedesk/pkg/logger"
)

// AnalyticsHandler handles analytics-related HTTP requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetDepartmentMetrics retrieves a department's daily task snapshots
// @Summary Get department task metrics
// @Tags analytics
// @Produce json
// @Param id path string true "Department ID"
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Router /api/v1/analytics/departments/{id}/metrics [get]
func (h *AnalyticsHandler) GetDepartmentMetrics(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := h.analyticsService.GetDepartmentMetrics(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": rows})
}

// GetDepartmentAnalytics retrieves a department's staffing and efficiency snapshots
// @Summary Get department analytics
// @Tags analytics
// @Produce json
// @Param id path string true "Department ID"
// @Router /api/v1/analytics/departments/{id}/analytics [get]
func (h *AnalyticsHandler) GetDepartmentAnalytics(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := h.analyticsService.GetDepartmentAnalytics(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": rows})
}

// GetTaskTrends retrieves per-period created/completed counts
// @Summary Get department task trends
// @Tags analytics
// @Produce json
// @Param id path string true "Department ID"
// @Param period query string false "daily, weekly or monthly"
// @Router /api/v1/analytics/departments/{id}/trends [get]
func (h *AnalyticsHandler) GetTaskTrends(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	period := c.DefaultQuery("period", string(model.TrendPeriodDaily))
	if !model.ValidTrendPeriod(period) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown trend period"})
		return
	}
	summary, err := h.analyticsService.CalculateTaskTrends(c.Request.Context(), c.Param("id"), model.TrendPeriod(period), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetDepartmentAnomalies flags abrupt changes in department task metrics
// @Summary Detect department task anomalies
// @Tags analytics
// @Produce json
// @Param id path string true "Department ID"
// @Router /api/v1/analytics/departments/{id}/anomalies [get]
func (h *AnalyticsHandler) GetDepartmentAnomalies(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	anomalies, err := h.analyticsService.DetectTaskAnomalies(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"anomalies": anomalies})
}

// GetDepartmentTrendDetection reports overall metric direction over the range
// @Summary Detect department metric trends
// @Tags analytics
// @Produce json
// @Param id path string true "Department ID"
// @Router /api/v1/analytics/departments/{id}/trend-detection [get]
func (h *AnalyticsHandler) GetDepartmentTrendDetection(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	trends, err := h.analyticsService.DetectDepartmentTrends(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// ForecastCompletion projects the department's completed task count forward
// @Summary Forecast department task completion
// @Tags analytics
// @Produce json
// @Param id path string true "Department ID"
// @Router /api/v1/analytics/departments/{id}/forecast/completion [get]
func (h *AnalyticsHandler) ForecastCompletion(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	points, err := h.analyticsService.ForecastTaskCompletion(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forecast": points})
}

// ForecastWorkload projects the department's total task count forward
// @Summary Forecast department workload
// @Tags analytics
// @Produce json
// @Param id path string true "Department ID"
// @Router /api/v1/analytics/departments/{id}/forecast/workload [get]
func (h *AnalyticsHandler) ForecastWorkload(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	points, err := h.analyticsService.ForecastDepartmentWorkload(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forecast": points})
}

// GetUserPerformance retrieves a user's daily performance snapshots
// @Summary Get user performance metrics
// @Tags analytics
// @Produce json
// @Param id path string true "User ID"
// @Router /api/v1/analytics/users/{id}/performance [get]
func (h *AnalyticsHandler) GetUserPerformance(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := h.analyticsService.GetUserPerformanceMetrics(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"performance": rows})
}

// GetUserAnomalies flags abrupt changes in a user's activity
// @Summary Detect user activity anomalies
// @Tags analytics
// @Produce json
// @Param id path string true "User ID"
// @Router /api/v1/analytics/users/{id}/anomalies [get]
func (h *AnalyticsHandler) GetUserAnomalies(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	anomalies, err := h.analyticsService.DetectUserActivityAnomalies(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"anomalies": anomalies})
}

// ForecastUserProductivity projects a user's productivity score forward
// @Summary Forecast user productivity
// @Tags analytics
// @Produce json
// @Param id path string true "User ID"
// @Router /api/v1/analytics/users/{id}/forecast/productivity [get]
func (h *AnalyticsHandler) ForecastUserProductivity(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	points, err := h.analyticsService.ForecastUserProductivity(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forecast": points})
}

// RunAggregation triggers a full daily aggregation run
// @Summary Run the daily snapshot aggregation
// @Tags analytics
// @Produce json
// @Router /api/v1/analytics/aggregation/run [post]
func (h *AnalyticsHandler) RunAggregation(c *gin.Context) {
	if err := h.analyticsService.RunDailyAggregation(c.Request.Context()); err != nil {
		logger.ErrorCtx(c.Request.Context(), "manual aggregation run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}
