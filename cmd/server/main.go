package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/uzima/reimbursement/internal/application/service"
	"github.com/uzima/reimbursement/internal/config"
	"github.com/uzima/reimbursement/internal/domain/reference"
	"github.com/uzima/reimbursement/internal/export"
	httpserver "github.com/uzima/reimbursement/internal/interfaces/http"
	"github.com/uzima/reimbursement/internal/repository"
	"github.com/uzima/reimbursement/pkg/auth"
	"github.com/uzima/reimbursement/pkg/database"
	"github.com/uzima/reimbursement/pkg/utils"
)

func main() {
	// Local overrides from .env, if present
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting reimbursement service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Database and migrations
	sqlDB, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	db := repository.NewDB(sqlDB.DB, logger)
	claimRepo := repository.NewClaimRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)
	departmentRepo := repository.NewDepartmentRepository(db, logger)
	categoryRepo := repository.NewCategoryRepository(db, logger)
	notificationRepo := repository.NewNotificationRepository(db, logger)
	messageRepo := repository.NewMessageRepository(db, logger)
	auditRepo := repository.NewAuditLogRepository(db, logger)
	reportRepo := repository.NewReportRepository(db, logger)

	// Services
	sugar := logger.Sugar()
	svcLogger := serviceLogger{sugar}

	jwtManager := auth.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenDuration,
		cfg.Auth.RefreshTokenDuration,
		"reimbursement",
	)
	refGen := reference.NewGenerator(cfg.App.ReferencePrefix)

	services := httpserver.Services{
		Auth: service.NewAuthService(userRepo, jwtManager, svcLogger),
		Claims: service.NewClaimService(
			claimRepo, userRepo, departmentRepo, categoryRepo,
			notificationRepo, auditRepo, db, refGen,
			cfg.App.DefaultCurrency, svcLogger,
		),
		Notifications: service.NewNotificationService(notificationRepo, svcLogger),
		Messages:      service.NewMessageService(messageRepo, notificationRepo, userRepo, db, svcLogger),
		Reports:       service.NewReportService(reportRepo, svcLogger),
	}

	exporter := export.NewExcelExporter(logger)

	// HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		services,
		jwtManager,
		userRepo,
		categoryRepo,
		departmentRepo,
		auditRepo,
		exporter,
		svcLogger,
	)

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// serviceLogger adapts zap's sugared logger to the application Logger interface.
type serviceLogger struct {
	sugar *zap.SugaredLogger
}

func (l serviceLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l serviceLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}
