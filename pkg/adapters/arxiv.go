package adapters

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/models"
	"github.com/innofeed-labs/innofeed-engine/pkg/summarize"
)

const (
	arxivSourceLabel   = "arXiv"
	arxivBatchSize     = 25
	arxivPublishedTime = "2006-01-02T15:04:05Z"
)

// ArxivSource fetches recent papers from the arXiv Atom API.
type ArxivSource struct {
	client     *http.Client
	summarizer summarize.Summarizer
	logger     *zap.Logger

	baseURL    string
	categories map[string]string
	pageDelay  time.Duration
	now        func() time.Time
}

var _ Source = (*ArxivSource)(nil)

// NewArxivSource wires the arXiv adapter. categories maps domain names to
// arXiv category codes; domains without a mapping are silently skipped.
func NewArxivSource(baseURL string, categories map[string]string, pageDelay time.Duration, summarizer summarize.Summarizer, logger *zap.Logger) *ArxivSource {
	return &ArxivSource{
		client:     &http.Client{Timeout: 30 * time.Second},
		summarizer: summarizer,
		logger:     logger.Named("arxiv"),
		baseURL:    baseURL,
		categories: categories,
		pageDelay:  pageDelay,
		now:        time.Now,
	}
}

// Name identifies the source.
func (s *ArxivSource) Name() string {
	return "arxiv"
}

// Fetch paginates each mapped domain in batches of 25 until maxResults
// papers are collected or the source runs out of entries. A non-200 page
// aborts only that domain; papers collected before the failure are kept.
func (s *ArxivSource) Fetch(ctx context.Context, domainNames []string, maxResults int) ([]models.Item, error) {
	var all []models.Item

	for _, domain := range domainNames {
		category, ok := s.categories[domain]
		if !ok {
			continue
		}

		papers, err := s.fetchDomain(ctx, domain, category, maxResults)
		if err != nil {
			return all, err
		}

		s.logger.Info("fetched papers",
			zap.String("domain", domain),
			zap.Int("count", len(papers)))
		all = append(all, papers...)
	}

	return all, nil
}

func (s *ArxivSource) fetchDomain(ctx context.Context, domain, category string, maxResults int) ([]models.Item, error) {
	var papers []models.Item
	start := 0

	for len(papers) < maxResults {
		fetchSize := maxResults - len(papers)
		if fetchSize > arxivBatchSize {
			fetchSize = arxivBatchSize
		}

		entries, err := s.fetchPage(ctx, category, start, fetchSize)
		if err != nil {
			if ctx.Err() != nil {
				return papers, ctx.Err()
			}
			s.logger.Warn("aborting domain after page failure",
				zap.String("domain", domain),
				zap.Int("start", start),
				zap.Error(err))
			break
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			papers = append(papers, s.toItem(ctx, entry, domain))
		}

		start += fetchSize
		if err := s.sleep(ctx); err != nil {
			return papers, err
		}
	}

	return papers, nil
}

// sleep applies the per-page courtesy delay to the source.
func (s *ArxivSource) sleep(ctx context.Context) error {
	if s.pageDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.pageDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ArxivSource) fetchPage(ctx context.Context, category string, start, fetchSize int) ([]atomEntry, error) {
	pageURL := fmt.Sprintf("%s?search_query=%s&sortBy=submittedDate&sortOrder=descending&start=%d&max_results=%d",
		s.baseURL, url.QueryEscape("cat:"+category), start, fetchSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return feed.Entries, nil
}

func (s *ArxivSource) toItem(ctx context.Context, entry atomEntry, domain string) models.Item {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		title = "No title"
	}
	abstract := strings.TrimSpace(entry.Summary)

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	published := s.now()
	if entry.Published != "" {
		if parsed, err := time.Parse(arxivPublishedTime, entry.Published); err == nil {
			published = parsed
		}
	}

	var arxivID *string
	if entry.ID != "" {
		id := entry.ID
		if idx := strings.LastIndex(id, "/abs/"); idx >= 0 {
			id = id[idx+len("/abs/"):]
		}
		arxivID = &id
	}

	var pdfURL *string
	for _, link := range entry.Links {
		if link.Title == "pdf" && link.Href != "" {
			href := link.Href
			pdfURL = &href
			break
		}
	}

	categories := make([]string, 0, len(entry.Categories))
	for _, c := range entry.Categories {
		if c.Term != "" {
			categories = append(categories, c.Term)
		}
	}

	summary := s.summarizer.Summarize(ctx, abstract)

	return models.Item{
		Type:       models.TypePaper,
		Title:      title,
		Abstract:   abstract,
		Summary:    &summary,
		Authors:    strings.Join(authors, ", "),
		Date:       published,
		Source:     arxivSourceLabel,
		DomainName: domain,
		Paper: &models.PaperDetails{
			ArxivID:    arxivID,
			PDFURL:     pdfURL,
			DOI:        optional(entry.DOI),
			JournalRef: optional(entry.JournalRef),
			Categories: strings.Join(categories, ", "),
			Comment:    optional(entry.Comment),
		},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Atom feed shapes. The doi/journal_ref/comment elements live in the arXiv
// extension namespace.
type atomFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
	DOI        string         `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string         `xml:"http://arxiv.org/schemas/atom journal_ref"`
	Comment    string         `xml:"http://arxiv.org/schemas/atom comment"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}
