package models

// Domain is a topical category (e.g. "AI") that scopes both fetching and
// personalized feeds. Name is the natural key; ID is assigned on first insert.
// Domains are created lazily by ingestion and never updated or deleted by it.
type Domain struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
