package router

import (
	"servicedesk/app/handler"
	"servicedesk/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	analyticsHandler *handler.AnalyticsHandler
	reportHandler    *handler.ReportHandler
	taskHandler      *handler.TaskHandler
	activityHandler  *handler.ActivityHandler
}

// NewRouter creates a new Router
func NewRouter(analyticsHandler *handler.AnalyticsHandler, reportHandler *handler.ReportHandler, taskHandler *handler.TaskHandler, activityHandler *handler.ActivityHandler) *Router {
	return &Router{
		analyticsHandler: analyticsHandler,
		reportHandler:    reportHandler,
		taskHandler:      taskHandler,
		activityHandler:  activityHandler,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	api := engine.Group("/api/v1")
	{
		// Analytics read APIs
		analytics := api.Group("/analytics")
		{
			departments := analytics.Group("/departments/:id")
			{
				departments.GET("/metrics", r.analyticsHandler.GetDepartmentMetrics)
				departments.GET("/analytics", r.analyticsHandler.GetDepartmentAnalytics)
				departments.GET("/trends", r.analyticsHandler.GetTaskTrends)
				departments.GET("/anomalies", r.analyticsHandler.GetDepartmentAnomalies)
				departments.GET("/trend-detection", r.analyticsHandler.GetDepartmentTrendDetection)
				departments.GET("/forecast/completion", r.analyticsHandler.ForecastCompletion)
				departments.GET("/forecast/workload", r.analyticsHandler.ForecastWorkload)
			}

			users := analytics.Group("/users/:id")
			{
				users.GET("/performance", r.analyticsHandler.GetUserPerformance)
				users.GET("/anomalies", r.analyticsHandler.GetUserAnomalies)
				users.GET("/forecast/productivity", r.analyticsHandler.ForecastUserProductivity)
			}

			// Manual aggregation trigger (admin)
			analytics.POST("/aggregation/run", middleware.AuthMiddleware(), r.analyticsHandler.RunAggregation)
		}

		// Scheduled report APIs
		reports := api.Group("/reports")
		{
			reports.POST("", middleware.AuthMiddleware(), r.reportHandler.Create)
			reports.GET("", r.reportHandler.List)
			reports.GET("/:id", r.reportHandler.Get)
			reports.PUT("/:id", middleware.AuthMiddleware(), r.reportHandler.Update)
			reports.DELETE("/:id", middleware.AuthMiddleware(), r.reportHandler.Delete)
			reports.POST("/:id/generate", r.reportHandler.Generate)
			reports.POST("/:id/dispatch", r.reportHandler.Dispatch)
			reports.GET("/:id/export", r.reportHandler.Export)
		}

		// Task APIs
		tasks := api.Group("/tasks")
		{
			tasks.POST("", middleware.AuthMiddleware(), r.taskHandler.Create)
			tasks.GET("", r.taskHandler.List)
		}

		// Activity feed
		api.GET("/activity", r.activityHandler.List)
	}

	// Health check
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
