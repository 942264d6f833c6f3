// @title           Contract Workflow API
// @version         1.0
// @description     Contract lifecycle and production workflow management: contracts, projects, stage tasks, alerts and dashboard.

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	_ "contract-workflow-api/docs" // Swagger docs import

	"contract-workflow-api/internal/client"
	"contract-workflow-api/internal/config"
	"contract-workflow-api/internal/database"
	"contract-workflow-api/internal/job"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/repository"
	"contract-workflow-api/internal/router"
	"contract-workflow-api/internal/service"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Contract Workflow API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewWithLogger(logger)

	db, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Database unavailable", zap.Error(err))
	}
	defer database.Close(db)

	database.RegisterMetricsCallbacks(db, m)
	statsDone := database.StartDBStatsCollector(db, m, 15*time.Second)
	defer close(statsDone)

	collector := metrics.NewBusinessMetricsCollector(db, m, logger)
	collector.Start()
	defer collector.Stop()

	// Redis is optional; the dashboard is computed on every request without it
	var rdb *redis.Client
	if rdb, err = database.NewRedis(cfg.Redis, logger); err != nil {
		logger.Warn("Redis unavailable, dashboard cache disabled", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	relay := client.NewFromConfig(cfg.Notification, logger, m)
	defer relay.Close()

	scheduler, err := startScheduler(cfg, db, relay, m, logger)
	if err != nil {
		logger.Fatal("Failed to schedule jobs", zap.Error(err))
	}

	r := router.Setup(router.Config{
		DB:              db,
		Redis:           rdb,
		Logger:          logger,
		JWTSecret:       cfg.JWT.Secret,
		TokenTTL:        cfg.JWT.ExpireTime,
		BasePath:        cfg.Server.BasePath,
		CORSOrigins:     cfg.Server.CORSOrigins,
		Metrics:         m,
		Relay:           relay,
		ManagementEmail: cfg.Workflow.ManagementEmail,
		DashboardTTL:    cfg.Cache.DashboardTTL,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Contract Workflow API started",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// connectDatabase blocks until postgres answers and the schema is migrated,
// or ctx is cancelled
func connectDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ready := make(chan *gorm.DB, 1)
	database.Connect(ctx, database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, 5*time.Second, logger, func(db *gorm.DB) { ready <- db })

	select {
	case db := <-ready:
		if err := database.AutoMigrateWithRetry(db, logger, 3); err != nil {
			return nil, err
		}
		return db, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// startScheduler registers the overdue sweep on its cron spec
func startScheduler(cfg *config.Config, db *gorm.DB, relay client.NotificationClient, m *metrics.Metrics, logger *zap.Logger) (*cron.Cron, error) {
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	engine := service.NewWorkflowEngine(projectRepo, taskRepo, time.Now, logger)
	dispatcher := service.NewNotificationDispatcher(notificationRepo, userRepo, relay, cfg.Workflow.ManagementEmail, m, logger)
	overdue := job.NewOverdueJob(taskRepo, notificationRepo, dispatcher, engine, m, logger)

	c := cron.New()
	if _, err := c.AddJob(cfg.Jobs.OverdueSchedule, overdue); err != nil {
		return nil, fmt.Errorf("invalid overdue schedule %q: %w", cfg.Jobs.OverdueSchedule, err)
	}
	c.Start()

	logger.Info("Overdue task job scheduled", zap.String("schedule", cfg.Jobs.OverdueSchedule))
	return c, nil
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
