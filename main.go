package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/config"
	"github.com/innofeed-labs/innofeed-engine/pkg/database"
	"github.com/innofeed-labs/innofeed-engine/pkg/handlers"
	"github.com/innofeed-labs/innofeed-engine/pkg/logging"
	"github.com/innofeed-labs/innofeed-engine/pkg/middleware"
	"github.com/innofeed-labs/innofeed-engine/pkg/repositories"
	"github.com/innofeed-labs/innofeed-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const migrationsDir = "migrations"

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.Database.Database),
		zap.String("db_host", cfg.Database.Host),
		zap.String("summarizer_provider", cfg.Summarizer.Provider),
	)

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(sqlDB, migrationsDir, logger.Named("migrations")); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(db)
	domainRepo := repositories.NewDomainRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	prefRepo := repositories.NewPreferenceRepository(db)

	authService := services.NewAuthService(userRepo, logger)
	prefService := services.NewPreferenceService(prefRepo, domainRepo, logger)
	feedService := services.NewFeedService(prefRepo, itemRepo, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(mux)
	handlers.NewPreferenceHandler(prefService, logger).RegisterRoutes(mux)
	handlers.NewFeedHandler(feedService, logger).RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = middleware.RequestLogger(logger.Named("http"))(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting innofeed-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
