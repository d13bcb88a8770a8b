package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/logging"
	"github.com/innofeed-labs/innofeed-engine/pkg/models"
	"github.com/innofeed-labs/innofeed-engine/pkg/summarize"
)

const (
	patentsSourceLabel = "Google Patents"
	patentsPageSize    = 20
	patentsDateFormat  = "2006-01-02"
)

// PatentsSource fetches patents from Google Patents through SerpAPI.
// Without an API key it is a documented no-op, not a failure.
type PatentsSource struct {
	client     *http.Client
	summarizer summarize.Summarizer
	logger     *zap.Logger

	baseURL   string
	apiKey    string
	queries   map[string]string
	pageDelay time.Duration
	now       func() time.Time
}

var _ Source = (*PatentsSource)(nil)

// NewPatentsSource wires the patent adapter. queries maps domain names to
// boolean-OR search strings; domains without a mapping are skipped with a
// diagnostic.
func NewPatentsSource(baseURL, apiKey string, queries map[string]string, pageDelay time.Duration, summarizer summarize.Summarizer, logger *zap.Logger) *PatentsSource {
	return &PatentsSource{
		client:     &http.Client{Timeout: 30 * time.Second},
		summarizer: summarizer,
		logger:     logger.Named("patents"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		queries:    queries,
		pageDelay:  pageDelay,
		now:        time.Now,
	}
}

// Name identifies the source.
func (s *PatentsSource) Name() string {
	return "patents"
}

// Fetch paginates each mapped domain in pages of 20 until maxResults patents
// are collected or the source returns no organic results. The first request
// or parse failure aborts that domain; patents collected before the failure
// are kept.
func (s *PatentsSource) Fetch(ctx context.Context, domainNames []string, maxResults int) ([]models.Item, error) {
	if s.apiKey == "" {
		s.logger.Warn("SERPAPI_KEY not set, skipping patent fetching")
		return nil, nil
	}

	var all []models.Item

	for _, domain := range domainNames {
		query, ok := s.queries[domain]
		if !ok {
			s.logger.Info("no query mapping for domain, skipping",
				zap.String("domain", domain))
			continue
		}

		patents, err := s.fetchDomain(ctx, domain, query, maxResults)
		if err != nil {
			return all, err
		}

		s.logger.Info("fetched patents",
			zap.String("domain", domain),
			zap.Int("count", len(patents)))
		all = append(all, patents...)
	}

	return all, nil
}

func (s *PatentsSource) fetchDomain(ctx context.Context, domain, query string, maxResults int) ([]models.Item, error) {
	var patents []models.Item
	page := 0

	for len(patents) < maxResults {
		results, err := s.fetchPage(ctx, query, page)
		if err != nil {
			if ctx.Err() != nil {
				return patents, ctx.Err()
			}
			// Transport errors embed the request URL, api_key included.
			s.logger.Warn("aborting domain after fetch failure",
				zap.String("domain", domain),
				zap.Int("page", page),
				zap.String("error", logging.SanitizeError(err)))
			break
		}
		if len(results) == 0 {
			s.logger.Info("no more results for domain",
				zap.String("domain", domain))
			break
		}

		for _, result := range results {
			if len(patents) >= maxResults {
				break
			}
			patents = append(patents, s.toItem(ctx, result, domain))
		}

		page++
		if err := s.sleep(ctx); err != nil {
			return patents, err
		}
	}

	return patents, nil
}

func (s *PatentsSource) sleep(ctx context.Context) error {
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

func (s *PatentsSource) fetchPage(ctx context.Context, query string, page int) ([]organicResult, error) {
	params := url.Values{}
	params.Set("engine", "google_patents")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("start", strconv.Itoa(page*patentsPageSize))
	params.Set("num", strconv.Itoa(patentsPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned %s", resp.Status)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return body.OrganicResults, nil
}

func (s *PatentsSource) toItem(ctx context.Context, result organicResult, domain string) models.Item {
	title := result.Title
	if title == "" {
		title = "No title"
	}

	pubDate := s.now()
	if result.PublicationDate != "" {
		if parsed, err := time.Parse(patentsDateFormat, result.PublicationDate); err == nil {
			pubDate = parsed
		}
	}

	inventors := make([]string, 0, len(result.Inventors))
	for _, inv := range result.Inventors {
		if inv.Name != "" {
			inventors = append(inventors, inv.Name)
		}
	}
	authors := strings.Join(inventors, ", ")
	if authors == "" {
		authors = "N/A"
	}

	// Synthetic abstract; a real summary is only worth producing when the
	// source gave us a snippet.
	abstract := title
	var summary *string
	if result.Snippet != "" {
		abstract = fmt.Sprintf("%s. %s", title, result.Snippet)
		text := s.summarizer.Summarize(ctx, abstract)
		summary = &text
	}

	var assignee *string
	if len(result.Assignees) > 0 {
		name := result.Assignees[0].Name
		if name == "" {
			name = "N/A"
		}
		assignee = &name
	}

	var citedByCount *int
	if result.CitedBy != nil {
		total := result.CitedBy.Total
		citedByCount = &total
	}

	return models.Item{
		Type:       models.TypePatent,
		Title:      title,
		Abstract:   abstract,
		Summary:    summary,
		Authors:    authors,
		Date:       pubDate,
		Source:     patentsSourceLabel,
		DomainName: domain,
		Patent: &models.PatentDetails{
			ApplicationNumber:  orNA(result.PatentID),
			ApplicationStatus:  orNA(result.Status),
			PublicationDate:    orNA(result.PublicationDate),
			USPCClassification: joinCodes(result.Classifications.US),
			CPCClassifications: joinCodes(result.Classifications.CPC),
			Assignee:           assignee,
			PriorityDate:       orNA(result.PriorityDate),
			FamilyID:           orNA(result.FamilyID),
			PDFURL:             optional(result.PDF),
			ThumbnailURL:       optional(result.Thumbnail),
			CitedByCount:       citedByCount,
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func joinCodes(codes []classification) string {
	if len(codes) == 0 {
		return "N/A"
	}
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c.Code != "" {
			out = append(out, c.Code)
		}
	}
	if len(out) == 0 {
		return "N/A"
	}
	return strings.Join(out, ", ")
}

// SerpAPI google_patents response shapes, limited to the consumed fields.
type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Title           string          `json:"title"`
	Snippet         string          `json:"snippet"`
	PatentID        string          `json:"patent_id"`
	PublicationDate string          `json:"publication_date"`
	Status          string          `json:"status"`
	Inventors       []namedEntity   `json:"inventors"`
	Assignees       []namedEntity   `json:"assignees"`
	Classifications classifications `json:"classifications"`
	PriorityDate    string          `json:"priority_date"`
	FamilyID        string          `json:"family_id"`
	PDF             string          `json:"pdf"`
	Thumbnail       string          `json:"thumbnail"`
	CitedBy         *citedBy        `json:"cited_by"`
}

type namedEntity struct {
	Name string `json:"name"`
}

type classifications struct {
	CPC []classification `json:"cpc"`
	US  []classification `json:"us"`
}

type classification struct {
	Code string `json:"code"`
}

type citedBy struct {
	Total int `json:"total"`
}
