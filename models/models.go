package models

import "time"

// Article is a single decoded feed entry. It is never persisted.
type Article struct {
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Categories []string `json:"categories"`
	// Raw date text as found in the document
	PublicationDate string `json:"publicationDate"`
	// Best effort parse of PublicationDate, nil when the date is missing or unparseable
	Published   *time.Time `json:"published,omitempty"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Link        string     `json:"link,omitempty"`
	GUID        string     `json:"guid,omitempty"`
}

// ScanResult is the outcome of decoding one stored feed during a scan
type ScanResult struct {
	Feed     string
	Articles []Article
	Err      error
}
