// Command seed-admin provisions the bootstrap administrator account.
// It is idempotent: re-running against a database that already has the
// admin user changes nothing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcamargo/equiptrack/internal/config"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"github.com/rcamargo/equiptrack/internal/infrastructure/persistence/repository"
	"github.com/rcamargo/equiptrack/pkg/database"
	"github.com/rcamargo/equiptrack/pkg/utils"
)

const defaultAdminEmail = "admin@example.com"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	email := flag.String("email", defaultAdminEmail, "admin email address")
	flag.Parse()

	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stdout",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.Fatal("ADMIN_PASSWORD environment variable is required")
	}

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

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db.DB, logger)

	existing, err := userRepo.GetByEmail(ctx, *email)
	if err != nil {
		logger.Fatal("Failed to look up admin user", zap.Error(err))
	}
	if existing != nil {
		logger.Info("Admin user already exists, nothing to do",
			zap.String("email", *email), zap.Int64("id", existing.ID))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("Failed to hash password", zap.Error(err))
	}

	admin := &entity.User{
		Email:          *email,
		HashedPassword: string(hash),
		FullName:       "Administrator",
		Role:           entity.RoleAdmin,
		IsActive:       true,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		logger.Fatal("Failed to create admin user", zap.Error(err))
	}

	logger.Info("Admin user created", zap.String("email", *email), zap.Int64("id", admin.ID))
}
