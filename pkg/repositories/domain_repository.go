package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/innofeed-labs/innofeed-engine/pkg/apperrors"
	"github.com/innofeed-labs/innofeed-engine/pkg/database"
	"github.com/innofeed-labs/innofeed-engine/pkg/models"
)

// DomainRepository defines the interface for domain data access.
type DomainRepository interface {
	// GetOrCreate resolves a domain name to its ID, inserting the domain on
	// first sight. The write commits immediately on the pool, independent of
	// any item-batch transaction held by the caller.
	GetOrCreate(ctx context.Context, name string) (int64, error)
	GetByName(ctx context.Context, name string) (*models.Domain, error)
	List(ctx context.Context) ([]models.Domain, error)
}

// domainRepository implements DomainRepository using PostgreSQL.
type domainRepository struct {
	db *database.DB
}

// NewDomainRepository creates a new domain repository.
func NewDomainRepository(db *database.DB) DomainRepository {
	return &domainRepository{db: db}
}

// GetOrCreate resolves a domain name to its surrogate ID.
func (r *domainRepository) GetOrCreate(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM domains WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up domain: %w", err)
	}

	// The no-op update makes RETURNING yield the existing row when a
	// concurrent run created the domain first.
	query := `
		INSERT INTO domains (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	if err := r.db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create domain: %w", err)
	}

	return id, nil
}

// GetByName retrieves a domain by its natural key.
func (r *domainRepository) GetByName(ctx context.Context, name string) (*models.Domain, error) {
	var domain models.Domain
	err := r.db.QueryRow(ctx, `SELECT id, name FROM domains WHERE name = $1`, name).
		Scan(&domain.ID, &domain.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}
	return &domain, nil
}

// List retrieves all domains ordered by ID.
func (r *domainRepository) List(ctx context.Context) ([]models.Domain, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM domains ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []models.Domain
	for rows.Next() {
		var domain models.Domain
		if err := rows.Scan(&domain.ID, &domain.Name); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, domain)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domains: %w", err)
	}

	return domains, nil
}

var _ DomainRepository = (*domainRepository)(nil)
