package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/models"
	"github.com/innofeed-labs/innofeed-engine/pkg/repositories"
)

// TxBeginner starts a transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// IngestService deduplicates and stores fetched items. One transaction per
// Ingest call covers all item inserts; domain creation commits outside it.
type IngestService struct {
	db      TxBeginner
	domains repositories.DomainRepository
	items   repositories.ItemRepository
	logger  *zap.Logger
}

// NewIngestService creates the ingestion service.
func NewIngestService(db TxBeginner, domains repositories.DomainRepository, items repositories.ItemRepository, logger *zap.Logger) *IngestService {
	return &IngestService{
		db:      db,
		domains: domains,
		items:   items,
		logger:  logger.Named("ingest"),
	}
}

// Ingest inserts the items that are not yet stored, in input order, and
// returns the count of newly inserted items. Items whose title already
// exists are skipped silently. Domain names are resolved to IDs, creating
// missing domains immediately with their own commit - domains therefore
// persist even when the item batch later rolls back. On any failure the
// staged item inserts are rolled back and the error is returned.
func (s *IngestService) Ingest(ctx context.Context, items []models.Item) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	inserted := 0
	for i := range items {
		item := items[i]

		exists, err := s.items.ExistsByTitle(ctx, tx, item.Title)
		if err != nil {
			return 0, err
		}
		if exists {
			s.logger.Debug("skipping duplicate title", zap.String("title", item.Title))
			continue
		}

		domainID, err := s.domains.GetOrCreate(ctx, item.DomainName)
		if err != nil {
			return 0, err
		}
		item.DomainID = domainID

		if err := s.items.Insert(ctx, tx, &item); err != nil {
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	s.logger.Info("ingestion batch committed",
		zap.Int("received", len(items)),
		zap.Int("inserted", inserted))
	return inserted, nil
}
