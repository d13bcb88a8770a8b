package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/adapters"
	"github.com/innofeed-labs/innofeed-engine/pkg/config"
	"github.com/innofeed-labs/innofeed-engine/pkg/database"
	"github.com/innofeed-labs/innofeed-engine/pkg/logging"
	"github.com/innofeed-labs/innofeed-engine/pkg/models"
	"github.com/innofeed-labs/innofeed-engine/pkg/repositories"
	"github.com/innofeed-labs/innofeed-engine/pkg/services"
	"github.com/innofeed-labs/innofeed-engine/pkg/summarize"
)

// Version is set at build time via ldflags
var Version = "dev"

const migrationsDir = "migrations"

// main runs one ingestion pass: fetch from every source for every
// configured domain, then store the batch. A source failing does not
// abort the run; its items are simply absent from the batch.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	baseLogger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = baseLogger.Sync() }()

	logger := baseLogger.With(zap.String("run_id", uuid.NewString()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ingest.RunTimeout)
	defer cancel()

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

	domainRepo := repositories.NewDomainRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	ingestService := services.NewIngestService(db.Pool, domainRepo, itemRepo, logger)

	// Seed the configured domains up front so the catalog endpoint has
	// entries even before the first item lands.
	domainNames := make([]string, 0, len(cfg.Ingest.Domains))
	for _, m := range cfg.Ingest.Domains {
		if _, err := domainRepo.GetOrCreate(ctx, m.Name); err != nil {
			logger.Fatal("Failed to seed domain",
				zap.String("domain", m.Name),
				zap.Error(err))
		}
		domainNames = append(domainNames, m.Name)
	}

	summarizer := summarize.New(cfg.Summarizer, logger)

	sources := []adapters.Source{
		adapters.NewArxivSource(
			cfg.Ingest.ArxivBaseURL,
			cfg.Ingest.ArxivCategories(),
			cfg.Ingest.PageDelay,
			summarizer,
			logger,
		),
		adapters.NewPatentsSource(
			cfg.Patents.BaseURL,
			cfg.Patents.APIKey,
			cfg.Ingest.PatentQueries(),
			cfg.Ingest.PageDelay,
			summarizer,
			logger,
		),
	}

	var batch []models.Item
	for _, source := range sources {
		items, err := source.Fetch(ctx, domainNames, cfg.Ingest.MaxResults)
		if err != nil {
			logger.Error("Source fetch aborted",
				zap.String("source", source.Name()),
				zap.Error(err))
			continue
		}
		logger.Info("Source fetch complete",
			zap.String("source", source.Name()),
			zap.Int("items", len(items)))
		batch = append(batch, items...)
	}

	// Storage failures roll back the staged batch; the run still exits
	// cleanly with whatever diagnostics it gathered.
	inserted, err := ingestService.Ingest(ctx, batch)
	if err != nil {
		logger.Error("Ingestion batch rolled back", zap.Error(err))
		return
	}

	logger.Info("Ingestion run complete",
		zap.Int("fetched", len(batch)),
		zap.Int("inserted", inserted))
}
