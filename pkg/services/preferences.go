package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/models"
	"github.com/innofeed-labs/innofeed-engine/pkg/repositories"
)

// PreferenceService manages user domain subscriptions and the domain
// catalog behind them.
type PreferenceService interface {
	// Set fully replaces the user's preference set.
	Set(ctx context.Context, userID int64, domainIDs []int64) error
	ListDomains(ctx context.Context) ([]models.Domain, error)
}

type preferenceService struct {
	preferences repositories.PreferenceRepository
	domains     repositories.DomainRepository
	logger      *zap.Logger
}

// NewPreferenceService creates a new preference service.
func NewPreferenceService(preferences repositories.PreferenceRepository, domains repositories.DomainRepository, logger *zap.Logger) PreferenceService {
	return &preferenceService{
		preferences: preferences,
		domains:     domains,
		logger:      logger.Named("preferences"),
	}
}

// Set fully replaces the user's preference set.
func (s *preferenceService) Set(ctx context.Context, userID int64, domainIDs []int64) error {
	if err := s.preferences.Replace(ctx, userID, domainIDs); err != nil {
		return err
	}
	s.logger.Info("preferences replaced",
		zap.Int64("user_id", userID),
		zap.Int("domains", len(domainIDs)))
	return nil
}

// ListDomains returns the domain catalog.
func (s *preferenceService) ListDomains(ctx context.Context) ([]models.Domain, error) {
	return s.domains.List(ctx)
}

var _ PreferenceService = (*preferenceService)(nil)
