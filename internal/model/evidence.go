package model

import "time"

// EvidenceItem is one retrieved article or search result
type EvidenceItem struct {
	Title       string       `json:"title"`
	Snippet     string       `json:"snippet,omitempty"`
	URL         string       `json:"url"`
	Domain      string       `json:"domain,omitempty"`       // Bare hostname derived from URL
	Source      string       `json:"source"`                 // Collector that produced the item
	Kind        EvidenceKind `json:"kind"`                   // search or news
	PublishedAt *time.Time   `json:"published_at,omitempty"` // Only when the API reports it
}

// EvidenceKind classifies where an evidence item came from
type EvidenceKind string

const (
	EvidenceKindSearch EvidenceKind = "search" // General web search result
	EvidenceKindNews   EvidenceKind = "news"   // News aggregator article
)

// FactCheckRecord is a published review of a claim by a fact-checking organisation.
// A nil *FactCheckRecord means no fact-check was found.
type FactCheckRecord struct {
	ClaimText   string `json:"claim"`
	Rating      string `json:"rating"`               // Free-text label, e.g. "False", "Mostly true"
	Publisher   string `json:"publisher"`
	ReviewURL   string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"` // Raw timestamp as returned by the API
}

// DomainVerdict is the trust classification of a single hostname
type DomainVerdict struct {
	Domain      string `json:"domain"`
	IsTrusted   bool   `json:"is_trusted"`
	IsKnownFake bool   `json:"is_known_fake"`
}

// EvidenceSet is the merged output of every collector for one claim
type EvidenceSet struct {
	FactChecks []FactCheckRecord `json:"fact_checks"` // In API relevance order
	Search     []EvidenceItem    `json:"search"`
	News       []EvidenceItem    `json:"news"`
	Prediction *Prediction       `json:"prediction,omitempty"`
	Counts     map[string]int    `json:"counts"`             // Items returned per collector
	Failures   map[string]string `json:"failures,omitempty"` // Collector -> error message
}

// Items returns search and news evidence in one slice
func (e EvidenceSet) Items() []EvidenceItem {
	items := make([]EvidenceItem, 0, len(e.Search)+len(e.News))
	items = append(items, e.Search...)
	items = append(items, e.News...)
	return items
}

// IsEmpty reports whether no collector returned anything at all
func (e EvidenceSet) IsEmpty() bool {
	return len(e.FactChecks) == 0 && len(e.Search) == 0 && len(e.News) == 0
}
