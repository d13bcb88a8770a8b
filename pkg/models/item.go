package models

import "time"

// ItemType discriminates between the two item variants.
type ItemType string

const (
	TypePaper  ItemType = "paper"
	TypePatent ItemType = "patent"
)

// Item is the unified record representing either a paper or a patent.
// Exactly one of Paper or Patent is non-nil, matching Type. Variant fields
// for the other type are persisted as NULL.
type Item struct {
	ID       int64
	Type     ItemType
	Title    string
	Abstract string
	Summary  *string
	Authors  string
	Date     time.Time
	Source   string

	// DomainName is carried from the adapter; ingestion resolves it to
	// DomainID before the item is written.
	DomainName string
	DomainID   int64

	Paper  *PaperDetails
	Patent *PatentDetails
}

// PaperDetails holds arXiv-specific metadata.
type PaperDetails struct {
	ArxivID    *string
	PDFURL     *string
	DOI        *string
	JournalRef *string
	Categories string
	Comment    *string
}

// PatentDetails holds Google Patents-specific metadata.
type PatentDetails struct {
	ApplicationNumber  string
	ApplicationStatus  string
	PublicationDate    string
	USPCClassification string
	CPCClassifications string
	Assignee           *string
	PriorityDate       string
	FamilyID           string
	PDFURL             *string
	ThumbnailURL       *string
	CitedByCount       *int
}
