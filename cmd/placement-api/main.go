package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/placement-cell/placement-api/api/swagger"
	"github.com/placement-cell/placement-api/internal/handler"
	"github.com/placement-cell/placement-api/internal/repository"
	"github.com/placement-cell/placement-api/internal/router"
	"github.com/placement-cell/placement-api/internal/service"
	"github.com/placement-cell/placement-api/pkg/cache"
	"github.com/placement-cell/placement-api/pkg/config"
	"github.com/placement-cell/placement-api/pkg/database"
	"github.com/placement-cell/placement-api/pkg/export"
	"github.com/placement-cell/placement-api/pkg/jobs"
	"github.com/placement-cell/placement-api/pkg/logger"
	"github.com/placement-cell/placement-api/pkg/mailer"
	"github.com/placement-cell/placement-api/pkg/storage"
)

// @title Placement Portal API
// @version 1.0.0
// @description Campus placement management: profiles, drives, feedback and exports.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and locks degraded", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.BaseDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}

	validate := validator.New()

	// Repositories.
	principals := repository.NewPrincipalRepository(db)
	students := repository.NewStudentRepository(db)
	staff := repository.NewStaffRepository(db)
	companies := repository.NewCompanyRepository(db)
	feedbacks := repository.NewFeedbackRepository(db)
	dashboard := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Mail transport.
	var mail mailer.Mailer
	if cfg.Mail.Enabled && cfg.Mail.SendgridKey != "" {
		mail = mailer.NewSendgridMailer(cfg.Mail.SendgridKey, cfg.Mail.FromName, cfg.Mail.FromAddress, cfg.Mail.SubjectTag)
	} else {
		mail = mailer.NewConsoleMailer(logr)
	}

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(principals, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	notifySvc := service.NewNotificationService(mail, feedbacks, cacheRepo, logr)
	queue := notifySvc.Queue(jobs.Config{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})

	pdfExporter := export.NewPDFExporter()
	csvExporter := export.NewCSVExporter()

	studentSvc := service.NewStudentService(students, companies, feedbacks, store, validate, logr)
	staffSvc := service.NewStaffService(staff, students, validate, logr)
	companySvc := service.NewCompanyService(companies, students, notifySvc, pdfExporter, csvExporter, validate, logr)
	feedbackSvc := service.NewFeedbackService(feedbacks, students, cacheRepo, store, validate, logr)
	adminSvc := service.NewAdminService(principals, students, staff, dashboard, cacheRepo, cfg.Dashboard.CacheTTL, validate, logr)
	bulkSvc := service.NewBulkService(adminSvc, logr)
	exportSvc := service.NewExportService(students, store, pdfExporter, csvExporter, logr)

	// Background workers.
	rootCtx, stopWorkers := context.WithCancel(context.Background())
	queue.Start(rootCtx)

	var reminders *service.ReminderScheduler
	if cfg.Reminders.Enabled {
		reminders = service.NewReminderScheduler(notifySvc, cfg.Reminders.HourOfDay, logr)
		reminders.Start(rootCtx)
	}

	engine := router.New(cfg, logr, authSvc, metricsSvc, router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Students:  handler.NewStudentHandler(studentSvc, cfg.Uploads.MaxFileSizeBytes),
		Staff:     handler.NewStaffHandler(staffSvc),
		Companies: handler.NewCompanyHandler(companySvc),
		Feedbacks: handler.NewFeedbackHandler(feedbackSvc, cfg.Uploads.MaxFileSizeBytes),
		Admin:     handler.NewAdminHandler(adminSvc, bulkSvc, cfg.Uploads.MaxFileSizeBytes),
		Exports:   handler.NewExportHandler(exportSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}

	if reminders != nil {
		reminders.Stop()
	}
	stopWorkers()
	queue.Stop()
	logr.Info("bye", zap.String("env", cfg.Env))
}
