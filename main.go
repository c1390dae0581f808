package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/shariquekazmi/plan-generation-api/pkg/auth"
	"github.com/shariquekazmi/plan-generation-api/pkg/config"
	"github.com/shariquekazmi/plan-generation-api/pkg/database"
	"github.com/shariquekazmi/plan-generation-api/pkg/handlers"
	"github.com/shariquekazmi/plan-generation-api/pkg/middleware"
	"github.com/shariquekazmi/plan-generation-api/pkg/oracle"
	"github.com/shariquekazmi/plan-generation-api/pkg/repositories"
	"github.com/shariquekazmi/plan-generation-api/pkg/retry"
	"github.com/shariquekazmi/plan-generation-api/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", cfg.Database.Database),
		zap.String("oracle_provider", cfg.Oracle.Provider),
		zap.String("oracle_model", cfg.Oracle.Model))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// The database may still be coming up when we are; retry the initial
	// connection before giving up.
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	oracleClient, err := oracle.NewClient(&oracle.Config{
		Provider:        cfg.Oracle.Provider,
		BaseURL:         cfg.Oracle.BaseURL,
		Model:           cfg.Oracle.Model,
		APIKey:          cfg.Oracle.APIKey,
		FallbackMessage: cfg.Oracle.FallbackMessage,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create oracle client", zap.Error(err))
	}

	layerRepo := repositories.NewLayerRepository(db)
	userRepo := repositories.NewUserRepository(db)

	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	layerService := services.NewLayerService(layerRepo, oracleClient, cfg.Oracle.RequestTimeout, logger)
	userService := services.NewUserService(userRepo, authService, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewUsersHandler(userService, logger).RegisterRoutes(mux)
	handlers.NewLayersHandler(layerService, logger).RegisterRoutes(mux, authMiddleware)

	server := &http.Server{
		Addr:    cfg.BindAddr + ":" + cfg.Port,
		Handler: middleware.RequestLogger(logger)(mux),
	}

	go func() {
		logger.Info("Starting plan-generation-api",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger)
}
