package models

// FeedItem is one entry in a user's personalized feed. The variant field
// blocks are embedded as nilable pointers so JSON output carries only the
// keys relevant to the item's type.
type FeedItem struct {
	ID       int64    `json:"id"`
	Type     ItemType `json:"type"`
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Summary  *string  `json:"summary"`
	Authors  string   `json:"authors"`
	Date     *string  `json:"date"`
	Source   string   `json:"source"`
	DomainID int64    `json:"domain_id"`

	*PaperFeedFields
	*PatentFeedFields
}

// PaperFeedFields are the paper-only keys of a feed entry.
type PaperFeedFields struct {
	ArxivID    *string `json:"arxiv_id"`
	PDFURL     *string `json:"pdf_url"`
	DOI        *string `json:"doi"`
	JournalRef *string `json:"journal_ref"`
	Categories string  `json:"categories"`
	Comment    *string `json:"comment"`
}

// PatentFeedFields are the patent-only keys of a feed entry.
type PatentFeedFields struct {
	ApplicationNumber  string  `json:"application_number"`
	ApplicationStatus  string  `json:"application_status"`
	PublicationDate    string  `json:"publication_date"`
	USPCClassification string  `json:"uspc_classification"`
	CPCClassifications string  `json:"cpc_classifications"`
	Assignee           *string `json:"assignee"`
	PriorityDate       string  `json:"priority_date"`
	FamilyID           string  `json:"patent_family_id"`
	PDFURL             *string `json:"patent_pdf_url"`
	ThumbnailURL       *string `json:"thumbnail_url"`
	CitedByCount       *int    `json:"cited_by_count"`
}

// Feed is the response payload for GET /feed/{user_id}.
type Feed struct {
	UserID  int64      `json:"user_id"`
	Entries []FeedItem `json:"feed"`
	Message string     `json:"message,omitempty"`
}
