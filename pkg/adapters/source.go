// Package adapters translates external source APIs (arXiv, Google Patents)
// into unified Item records. Fetch failures are recovered per domain: a bad
// page aborts only that domain's remaining pagination, and whatever was
// collected before the failure is kept.
package adapters

import (
	"context"

	"github.com/innofeed-labs/innofeed-engine/pkg/models"
)

// Source pulls items for the requested domain names, at most maxResults per
// domain. Implementations never propagate per-domain fetch errors; the
// returned error is reserved for context cancellation.
type Source interface {
	Name() string
	Fetch(ctx context.Context, domainNames []string, maxResults int) ([]models.Item, error)
}
