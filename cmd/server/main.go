package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/rcamargo/equiptrack/internal/application/dispatcher"
	"github.com/rcamargo/equiptrack/internal/application/service"
	wfengine "github.com/rcamargo/equiptrack/internal/application/workflow"
	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/config"
	httpadapter "github.com/rcamargo/equiptrack/internal/interfaces/http"
	"github.com/rcamargo/equiptrack/internal/infrastructure/persistence/repository"
	"github.com/rcamargo/equiptrack/internal/infrastructure/persistence/sqlite"
	"github.com/rcamargo/equiptrack/internal/notification"
	"github.com/rcamargo/equiptrack/internal/report"
	"github.com/rcamargo/equiptrack/internal/storage"
	"github.com/rcamargo/equiptrack/pkg/database"
	"github.com/rcamargo/equiptrack/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Optional .env for local development
	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
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

	logger.Info("Starting equipment procurement tracker",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	fileStore, err := storage.NewFileStorage(cfg.Storage.Dir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Repositories and transaction manager
	txManager := sqlite.NewDB(db.DB, logger)
	requestRepo := repository.NewRequestRepository(db.DB, logger)
	quoteRepo := repository.NewQuoteRepository(db.DB, logger)
	docRepo := repository.NewDocumentRepository(db.DB, logger)
	machineRepo := repository.NewMachineRepository(db.DB, logger)
	maintenanceRepo := repository.NewMaintenanceRepository(db.DB, logger)
	partnerRepo := repository.NewPartnerRepository(db.DB, logger)
	auditRepo := repository.NewAuditLogRepository(db.DB, logger)

	sugar := utils.NewSugarAdapter(logger)

	// Event dispatcher and notification channels
	d := dispatcher.NewDispatcher(dispatcher.WithLogger(sugar))
	defer d.Close()

	var channels []port.NotificationChannel
	if cfg.Notifications.Email.Enabled {
		channels = append(channels, notification.NewEmailChannel(notification.EmailConfig{
			Host:     cfg.Notifications.Email.Host,
			Port:     cfg.Notifications.Email.Port,
			From:     cfg.Notifications.Email.From,
			Username: cfg.Notifications.Email.Username,
			Password: cfg.Notifications.Email.Password,
		}, logger))
	}
	if cfg.Notifications.WebhookURL != "" {
		channels = append(channels, notification.NewWebhookChannel(cfg.Notifications.WebhookURL, logger))
	}

	notifier := service.NewNotificationService(requestRepo, channels, cfg.Notifications.OpsRecipients, sugar)
	notifier.RegisterHandlers(d)

	// Workflow engine and services
	engine := wfengine.NewEngine(requestRepo, auditRepo, txManager, wfengine.WithDispatcher(d))

	requestService := service.NewRequestService(requestRepo, machineRepo, auditRepo, txManager, sugar)
	workflowService := service.NewWorkflowService(
		engine, requestRepo, quoteRepo, docRepo, machineRepo,
		auditRepo, txManager, fileStore, d, sugar,
	)
	machineService := service.NewMachineService(machineRepo, maintenanceRepo, sugar)
	partnerService := service.NewPartnerService(partnerRepo, sugar)
	renewalService := service.NewRenewalService(requestRepo, sugar)
	reportWriter := report.NewRenewalReportWriter(logger)

	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		requestService,
		workflowService,
		machineService,
		partnerService,
		renewalService,
		reportWriter,
		sugar,
	)

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}
