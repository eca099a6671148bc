// Package collect gathers evidence about a claim from external APIs.
package collect

import (
	"context"
	"errors"
	"strconv"

	"github.com/ppiankov/veracity/internal/extract"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/validate"
)

// ErrCollectorUnavailable wraps every collector failure: timeout, bad status,
// malformed payload, or panic. The Gatherer absorbs it.
var ErrCollectorUnavailable = errors.New("collector unavailable")

// Collector names, used as keys in counts, failures and endpoint overrides
const (
	NameGoogleFactCheck = "googlefactcheck"
	NameSerpAPI         = "serpapi"
	NameGoogleCSE       = "googlecse"
	NameNewsData        = "newsdata"
	NameGNews           = "gnews"
	NameMediastack      = "mediastack"
	NameGoogleNews      = "googlenews"
	NameTiebreaker      = "tiebreaker"
)

// FactChecker looks up published fact-checks of a claim
type FactChecker interface {
	Name() string
	Lookup(ctx context.Context, claim model.Claim) ([]model.FactCheckRecord, error)
}

// Searcher retrieves search results or news articles related to a claim
type Searcher interface {
	Name() string
	Kind() model.EvidenceKind
	Search(ctx context.Context, claim model.Claim) ([]model.EvidenceItem, error)
}

// FromConfig builds every collector whose credentials are configured
func FromConfig(cfg model.CollectorsConfig, client *Client) ([]FactChecker, []Searcher) {
	var checkers []FactChecker
	var searchers []Searcher

	endpoint := func(name, fallback string) string {
		if e := cfg.Endpoints[name]; e != "" {
			return e
		}
		return fallback
	}

	if cfg.FactCheckAPIKey != "" {
		checkers = append(checkers, &GoogleFactCheck{
			client: client, endpoint: endpoint(NameGoogleFactCheck, googleFactCheckURL),
			apiKey: cfg.FactCheckAPIKey, language: cfg.Language, pageSize: cfg.MaxResults,
		})
	}

	if cfg.SerpAPIKey != "" {
		searchers = append(searchers, &SerpAPI{
			client: client, endpoint: endpoint(NameSerpAPI, serpAPIURL),
			apiKey: cfg.SerpAPIKey, num: cfg.MaxResults,
		})
	}
	if cfg.GoogleAPIKey != "" && cfg.GoogleCSEID != "" {
		searchers = append(searchers, &GoogleCSE{
			client: client, endpoint: endpoint(NameGoogleCSE, googleCSEURL),
			apiKey: cfg.GoogleAPIKey, cx: cfg.GoogleCSEID, num: cfg.MaxResults,
		})
	}
	if cfg.NewsDataAPIKey != "" {
		searchers = append(searchers, &NewsData{
			client: client, endpoint: endpoint(NameNewsData, newsDataURL),
			apiKey: cfg.NewsDataAPIKey, language: cfg.Language, max: cfg.MaxResults,
		})
	}
	if cfg.GNewsAPIKey != "" {
		searchers = append(searchers, &GNews{
			client: client, endpoint: endpoint(NameGNews, gnewsURL),
			apiKey: cfg.GNewsAPIKey, language: cfg.Language, max: cfg.MaxResults,
		})
	}
	if cfg.MediastackAPIKey != "" {
		searchers = append(searchers, &Mediastack{
			client: client, endpoint: endpoint(NameMediastack, mediastackURL),
			apiKey: cfg.MediastackAPIKey, language: cfg.Language, max: cfg.MaxResults,
		})
	}
	if cfg.GoogleNewsRSS {
		searchers = append(searchers, &GoogleNews{
			client: client, endpoint: endpoint(NameGoogleNews, googleNewsURL),
			region: cfg.GoogleNewsRegion, max: cfg.MaxResults,
		})
	}

	return checkers, searchers
}

// newItem builds a normalized evidence item; items without a title or URL are dropped
func newItem(source string, kind model.EvidenceKind, title, snippet, link, published string) (model.EvidenceItem, bool) {
	item := model.EvidenceItem{
		Title:   extract.CleanSnippet(title),
		Snippet: extract.CleanSnippet(snippet),
		URL:     link,
		Domain:  validate.Host(link),
		Source:  source,
		Kind:    kind,
	}
	if item.Title == "" && item.URL == "" {
		return item, false
	}
	if t, ok := validate.ParseTimestamp(published); ok {
		utc := t.UTC()
		item.PublishedAt = &utc
	}
	return item, true
}

func limitItems(items []model.EvidenceItem, max int) []model.EvidenceItem {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
