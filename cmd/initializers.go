package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"servicedesk/app/handler"
	"servicedesk/app/router"
	"servicedesk/internal/service"
	"servicedesk/pkg/config"
	"servicedesk/pkg/logger"
	"servicedesk/pkg/mail"
	asynqqueue "servicedesk/pkg/queue/asynq"
	"servicedesk/pkg/sequence"
	mysqlstore "servicedesk/pkg/store/mysql"
	redisstore "servicedesk/pkg/store/redis"
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.Sync()
	})
	return nil
}

// initMySQL initializes MySQL
func (app *Application) initMySQL() error {
	repo, err := mysqlstore.NewRepository(mysqlstore.BuildDSN(&app.config.MySQL))
	if err != nil {
		return err
	}

	app.mysqlRepo = repo
	app.registerCleanup(func() {
		repo.Close()
		logger.InfoCtx(app.ctx, "MySQL connection has been closed")
	})

	return nil
}

// initRedis initializes Redis
func (app *Application) initRedis() error {
	client, err := redisstore.NewRedisClient(app.config)
	if err != nil {
		return err
	}

	app.redisClient = client
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})

	return nil
}

// initServices initializes service layer
func (app *Application) initServices() error {
	app.analyticsService = service.NewAnalyticsService(
		app.mysqlRepo.Task,
		app.mysqlRepo.Snapshot,
		app.mysqlRepo.Directory,
		app.config.Aggregation.Concurrency,
	)

	app.reportService = service.NewReportService(
		app.mysqlRepo.Report,
		app.mysqlRepo.Task,
		app.mysqlRepo.Activity,
		app.analyticsService,
	)

	mailer := mail.NewSMTPSender(&app.config.Mail)
	reportTimeout := time.Duration(app.config.Scheduler.ReportTimeout) * time.Second
	app.dispatchService = service.NewDispatchService(
		app.mysqlRepo.Report,
		app.mysqlRepo.Activity,
		app.reportService,
		mailer,
		reportTimeout,
	)

	allocator := sequence.NewAllocator(app.redisClient.GetClient())
	app.taskService = service.NewTaskService(
		app.mysqlRepo.Task,
		app.mysqlRepo.Directory,
		app.mysqlRepo.Activity,
		allocator,
	)

	return nil
}

// initQueue initializes the on-demand dispatch queue
func (app *Application) initQueue() error {
	manager, err := asynqqueue.NewManager(app.config)
	if err != nil {
		return err
	}

	manager.RegisterHandler(asynqqueue.TypeReportDispatch, asynqqueue.NewDispatchHandler(app.dispatchService))

	app.queueManager = manager
	app.registerCleanup(func() {
		manager.Close()
		logger.InfoCtx(app.ctx, "Queue client has been closed")
	})

	return nil
}

// initHandlers initializes handler layer
func (app *Application) initHandlers() error {
	app.analyticsHandler = handler.NewAnalyticsHandler(app.analyticsService)
	app.reportHandler = handler.NewReportHandler(app.reportService, app.queueManager)
	app.taskHandler = handler.NewTaskHandler(app.taskService)
	app.activityHandler = handler.NewActivityHandler(app.taskService)
	return nil
}

// initHTTPServer initializes HTTP server
func (app *Application) initHTTPServer() error {
	// Initialize router
	r := router.NewRouter(app.analyticsHandler, app.reportHandler, app.taskHandler, app.activityHandler)

	// Set Gin mode
	gin.SetMode(app.config.Server.Mode)

	// Create Gin engine
	app.ginEngine = gin.New()
	app.ginEngine.Use(gin.Recovery())

	// Setup routes
	r.Setup(app.ginEngine)

	// Create HTTP server
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}

	return nil
}
