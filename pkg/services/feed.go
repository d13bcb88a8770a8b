package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/models"
	"github.com/innofeed-labs/innofeed-engine/pkg/repositories"
)

// FeedService assembles personalized feeds from stored items.
type FeedService interface {
	GetFeed(ctx context.Context, userID int64) (*models.Feed, error)
}

type feedService struct {
	preferences repositories.PreferenceRepository
	items       repositories.ItemRepository
	logger      *zap.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(preferences repositories.PreferenceRepository, items repositories.ItemRepository, logger *zap.Logger) FeedService {
	return &feedService{
		preferences: preferences,
		items:       items,
		logger:      logger.Named("feed"),
	}
}

// GetFeed joins the user's domain preferences to stored items, newest
// first. A user without preferences gets an empty feed with an explicit
// message rather than an error.
func (s *feedService) GetFeed(ctx context.Context, userID int64) (*models.Feed, error) {
	domainIDs, err := s.preferences.ListDomainIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(domainIDs) == 0 {
		return &models.Feed{
			UserID:  userID,
			Entries: []models.FeedItem{},
			Message: "No domain preferences found for this user.",
		}, nil
	}

	items, err := s.items.ListByDomainIDs(ctx, domainIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FeedItem, 0, len(items))
	for i := range items {
		entries = append(entries, toFeedItem(&items[i]))
	}

	return &models.Feed{UserID: userID, Entries: entries}, nil
}

func toFeedItem(item *models.Item) models.FeedItem {
	entry := models.FeedItem{
		ID:       item.ID,
		Type:     item.Type,
		Title:    item.Title,
		Abstract: item.Abstract,
		Summary:  item.Summary,
		Authors:  item.Authors,
		Source:   item.Source,
		DomainID: item.DomainID,
	}

	if !item.Date.IsZero() {
		date := item.Date.Format(time.RFC3339)
		entry.Date = &date
	}

	if p := item.Paper; p != nil {
		entry.PaperFeedFields = &models.PaperFeedFields{
			ArxivID:    p.ArxivID,
			PDFURL:     p.PDFURL,
			DOI:        p.DOI,
			JournalRef: p.JournalRef,
			Categories: p.Categories,
			Comment:    p.Comment,
		}
	}
	if p := item.Patent; p != nil {
		entry.PatentFeedFields = &models.PatentFeedFields{
			ApplicationNumber:  p.ApplicationNumber,
			ApplicationStatus:  p.ApplicationStatus,
			PublicationDate:    p.PublicationDate,
			USPCClassification: p.USPCClassification,
			CPCClassifications: p.CPCClassifications,
			Assignee:           p.Assignee,
			PriorityDate:       p.PriorityDate,
			FamilyID:           p.FamilyID,
			PDFURL:             p.PDFURL,
			ThumbnailURL:       p.ThumbnailURL,
			CitedByCount:       p.CitedByCount,
		}
	}

	return entry
}

var _ FeedService = (*feedService)(nil)
