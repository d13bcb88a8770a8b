package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/innofeed-labs/innofeed-engine/pkg/database"
	"github.com/innofeed-labs/innofeed-engine/pkg/models"
)

// ItemRepository defines the interface for item data access. The ingestion
// core only ever creates items; there are no update or delete operations.
// ExistsByTitle and Insert take an explicit Querier so they run inside the
// caller's transaction.
type ItemRepository interface {
	ExistsByTitle(ctx context.Context, q database.Querier, title string) (bool, error)
	Insert(ctx context.Context, q database.Querier, item *models.Item) error
	// ListByDomainIDs returns items in any of the given domains, newest
	// first, for feed assembly.
	ListByDomainIDs(ctx context.Context, domainIDs []int64) ([]models.Item, error)
}

// itemRepository implements ItemRepository using PostgreSQL.
type itemRepository struct {
	db *database.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *database.DB) ItemRepository {
	return &itemRepository{db: db}
}

// ExistsByTitle reports whether an item with exactly this title is stored.
func (r *itemRepository) ExistsByTitle(ctx context.Context, q database.Querier, title string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE title = $1)`, title).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check item title: %w", err)
	}
	return exists, nil
}

// Insert stages an item row. Variant columns for the other type are NULL.
func (r *itemRepository) Insert(ctx context.Context, q database.Querier, item *models.Item) error {
	query := `
		INSERT INTO items (
			type, title, abstract, summary, authors, date, source, domain_id,
			application_number, application_status, publication_date,
			uspc_classification, cpc_classifications, assignee, priority_date,
			patent_family_id, patent_pdf_url, thumbnail_url, cited_by_count,
			arxiv_id, pdf_url, doi, journal_ref, categories, comment
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25
		) RETURNING id`

	var (
		appNumber, appStatus, pubDate, uspc, cpc, priorityDate, familyID *string
		assignee, patentPDF, thumbnail                                   *string
		citedBy                                                          *int
		arxivID, pdfURL, doi, journalRef, categories, comment            *string
	)

	if p := item.Patent; p != nil {
		appNumber = &p.ApplicationNumber
		appStatus = &p.ApplicationStatus
		pubDate = &p.PublicationDate
		uspc = &p.USPCClassification
		cpc = &p.CPCClassifications
		assignee = p.Assignee
		priorityDate = &p.PriorityDate
		familyID = &p.FamilyID
		patentPDF = p.PDFURL
		thumbnail = p.ThumbnailURL
		citedBy = p.CitedByCount
	}
	if p := item.Paper; p != nil {
		arxivID = p.ArxivID
		pdfURL = p.PDFURL
		doi = p.DOI
		journalRef = p.JournalRef
		categories = &p.Categories
		comment = p.Comment
	}

	err := q.QueryRow(ctx, query,
		item.Type, item.Title, item.Abstract, item.Summary, item.Authors,
		item.Date, item.Source, item.DomainID,
		appNumber, appStatus, pubDate, uspc, cpc, assignee, priorityDate,
		familyID, patentPDF, thumbnail, citedBy,
		arxivID, pdfURL, doi, journalRef, categories, comment,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// ListByDomainIDs retrieves items in the given domains, newest first.
func (r *itemRepository) ListByDomainIDs(ctx context.Context, domainIDs []int64) ([]models.Item, error) {
	if len(domainIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, type, title, abstract, summary, authors, date, source, domain_id,
			application_number, application_status, publication_date,
			uspc_classification, cpc_classifications, assignee, priority_date,
			patent_family_id, patent_pdf_url, thumbnail_url, cited_by_count,
			arxiv_id, pdf_url, doi, journal_ref, categories, comment
		FROM items
		WHERE domain_id = ANY($1)
		ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, domainIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var (
		item     models.Item
		abstract *string
		authors  *string
		date     *time.Time
		source   *string
		domainID *int64

		appNumber, appStatus, pubDate, uspc, cpc, priorityDate, familyID *string
		assignee, patentPDF, thumbnail                                   *string
		citedBy                                                          *int
		arxivID, pdfURL, doi, journalRef, categories, comment            *string
	)

	err := row.Scan(
		&item.ID, &item.Type, &item.Title, &abstract, &item.Summary, &authors,
		&date, &source, &domainID,
		&appNumber, &appStatus, &pubDate, &uspc, &cpc, &assignee, &priorityDate,
		&familyID, &patentPDF, &thumbnail, &citedBy,
		&arxivID, &pdfURL, &doi, &journalRef, &categories, &comment,
	)
	if err != nil {
		return models.Item{}, fmt.Errorf("failed to scan item: %w", err)
	}

	if abstract != nil {
		item.Abstract = *abstract
	}
	if authors != nil {
		item.Authors = *authors
	}
	if date != nil {
		item.Date = *date
	}
	if source != nil {
		item.Source = *source
	}
	if domainID != nil {
		item.DomainID = *domainID
	}

	switch item.Type {
	case models.TypePaper:
		item.Paper = &models.PaperDetails{
			ArxivID:    arxivID,
			PDFURL:     pdfURL,
			DOI:        doi,
			JournalRef: journalRef,
			Comment:    comment,
		}
		if categories != nil {
			item.Paper.Categories = *categories
		}
	case models.TypePatent:
		patent := &models.PatentDetails{
			Assignee:     assignee,
			PDFURL:       patentPDF,
			ThumbnailURL: thumbnail,
			CitedByCount: citedBy,
		}
		if appNumber != nil {
			patent.ApplicationNumber = *appNumber
		}
		if appStatus != nil {
			patent.ApplicationStatus = *appStatus
		}
		if pubDate != nil {
			patent.PublicationDate = *pubDate
		}
		if uspc != nil {
			patent.USPCClassification = *uspc
		}
		if cpc != nil {
			patent.CPCClassifications = *cpc
		}
		if priorityDate != nil {
			patent.PriorityDate = *priorityDate
		}
		if familyID != nil {
			patent.FamilyID = *familyID
		}
		item.Patent = patent
	}

	return item, nil
}

var _ ItemRepository = (*itemRepository)(nil)
