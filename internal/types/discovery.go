// Package types provides type definitions for structured data used throughout the discovery system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CrawlTarget identifies the organization and domain a crawl session works on.
// It is created by the caller and treated as immutable for the whole session.
type CrawlTarget struct {
	OrganizationName string `json:"organization_name" validate:"required,min=1"`
	Domain           string `json:"domain" validate:"required"`
}

// Validate validates the CrawlTarget using the validator.
func (t *CrawlTarget) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}

// SitemapEntryKind distinguishes crawlable pages from document links.
type SitemapEntryKind string

const (
	// EntryPage is a regular page candidate for fetching and extraction.
	EntryPage SitemapEntryKind = "page"
	// EntryDocument is a document link (PDF). Recorded, never fetched.
	EntryDocument SitemapEntryKind = "document"
)

// SitemapEntry is a single URL discovered through sitemap expansion.
type SitemapEntry struct {
	URL  string           `json:"url"`
	Kind SitemapEntryKind `json:"kind"`
}

// FetchStatus describes the outcome of a single fetch attempt.
type FetchStatus string

const (
	// FetchOK means the page was retrieved and parsed as HTML.
	FetchOK FetchStatus = "ok"
	// FetchNotFound means the server returned 404.
	FetchNotFound FetchStatus = "not_found"
	// FetchBlocked means a non-success status other than 404 was returned.
	FetchBlocked FetchStatus = "blocked"
	// FetchTimeout means the request timed out or failed at transport level.
	FetchTimeout FetchStatus = "timeout"
	// FetchNonHTML means the response content type was not an HTML media type.
	FetchNonHTML FetchStatus = "non_html"
)

// CachedPage records where a fetched page was persisted on disk.
type CachedPage struct {
	Domain   string `json:"domain"`
	Slug     string `json:"slug"`
	HTMLPath string `json:"html_path"`
	TextPath string `json:"text_path"`
}

// ExecutiveCandidate is a (name, title) pair extracted from a page, retained
// only after passing name validation. Candidates with the same name from
// different pages are not deduplicated here; that is left to callers.
type ExecutiveCandidate struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	SourceURL      string    `json:"source_url"`
	NameConfidence float64   `json:"name_confidence"`
	DiscoveredAt   time.Time `json:"discovered_at"`
}

// ValidationScore is the result of a name or domain validation check.
// A fresh score is computed per call and never mutated afterwards.
type ValidationScore struct {
	IsValid    bool    `json:"is_valid"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

// DiscoveryResult aggregates everything a crawl session produced for one target.
type DiscoveryResult struct {
	Target     CrawlTarget          `json:"target"`
	Executives []ExecutiveCandidate `json:"executives"`
	PagesSeen  int                  `json:"pages_seen"`
	PDFLinks   []string             `json:"pdf_links,omitempty"`
	Emails     map[string][]string  `json:"emails,omitempty"`
}
