package repositories

import (
	"context"
	"fmt"

	"github.com/innofeed-labs/innofeed-engine/pkg/database"
)

// PreferenceRepository defines the interface for user domain preferences.
type PreferenceRepository interface {
	// Replace swaps the user's full preference set atomically
	// (delete-then-insert in one transaction).
	Replace(ctx context.Context, userID int64, domainIDs []int64) error
	ListDomainIDs(ctx context.Context, userID int64) ([]int64, error)
}

// preferenceRepository implements PreferenceRepository using PostgreSQL.
type preferenceRepository struct {
	db *database.DB
}

// NewPreferenceRepository creates a new preference repository.
func NewPreferenceRepository(db *database.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// Replace swaps the user's preference set.
func (r *preferenceRepository) Replace(ctx context.Context, userID int64, domainIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `DELETE FROM user_domain_preferences WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}

	for _, domainID := range domainIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO user_domain_preferences (user_id, domain_id) VALUES ($1, $2)`,
			userID, domainID)
		if err != nil {
			return fmt.Errorf("failed to insert preference: %w", err)
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListDomainIDs returns the domain IDs the user subscribed to.
func (r *preferenceRepository) ListDomainIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT domain_id FROM user_domain_preferences WHERE user_id = $1 ORDER BY domain_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}

	return ids, nil
}

var _ PreferenceRepository = (*preferenceRepository)(nil)
