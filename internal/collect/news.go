package collect

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ppiankov/veracity/internal/model"
)

const (
	newsDataURL   = "https://newsdata.io/api/1/news"
	gnewsURL      = "https://gnews.io/api/v4/search"
	mediastackURL = "http://api.mediastack.com/v1/news"
)

// NewsData queries the NewsData.io latest news API
type NewsData struct {
	client   *Client
	endpoint string
	apiKey   string
	language string
	max      int
}

type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		PubDate     string `json:"pubDate"`
	} `json:"results"`
}

func (n *NewsData) Name() string             { return NameNewsData }
func (n *NewsData) Kind() model.EvidenceKind { return model.EvidenceKindNews }

// Search returns matching news articles
func (n *NewsData) Search(ctx context.Context, claim model.Claim) ([]model.EvidenceItem, error) {
	params := url.Values{}
	params.Set("apikey", n.apiKey)
	params.Set("q", claim.Text)
	if n.language != "" {
		params.Set("language", n.language)
	}

	var resp newsDataResponse
	if err := n.client.GetJSON(ctx, n.endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCollectorUnavailable, n.Name(), err)
	}
	if resp.Status != "" && resp.Status != "success" {
		return nil, fmt.Errorf("%w: %s: status %q", ErrCollectorUnavailable, n.Name(), resp.Status)
	}

	items := make([]model.EvidenceItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		if item, ok := newItem(n.Name(), n.Kind(), r.Title, r.Description, r.Link, r.PubDate); ok {
			items = append(items, item)
		}
	}
	return limitItems(items, n.max), nil
}

// GNews queries the GNews search API
type GNews struct {
	client   *Client
	endpoint string
	apiKey   string
	language string
	max      int
}

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (g *GNews) Name() string             { return NameGNews }
func (g *GNews) Kind() model.EvidenceKind { return model.EvidenceKindNews }

// Search returns matching news articles
func (g *GNews) Search(ctx context.Context, claim model.Claim) ([]model.EvidenceItem, error) {
	params := url.Values{}
	params.Set("q", claim.Text)
	params.Set("token", g.apiKey)
	if g.language != "" {
		params.Set("lang", g.language)
	}
	if g.max > 0 {
		params.Set("max", itoa(g.max))
	}

	var resp gnewsResponse
	if err := g.client.GetJSON(ctx, g.endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCollectorUnavailable, g.Name(), err)
	}

	items := make([]model.EvidenceItem, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if item, ok := newItem(g.Name(), g.Kind(), a.Title, a.Description, a.URL, a.PublishedAt); ok {
			items = append(items, item)
		}
	}
	return limitItems(items, g.max), nil
}

// Mediastack queries the Mediastack news API
type Mediastack struct {
	client   *Client
	endpoint string
	apiKey   string
	language string
	max      int
}

type mediastackResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Data []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		PublishedAt string `json:"published_at"`
	} `json:"data"`
}

func (m *Mediastack) Name() string             { return NameMediastack }
func (m *Mediastack) Kind() model.EvidenceKind { return model.EvidenceKindNews }

// Search returns matching news articles
func (m *Mediastack) Search(ctx context.Context, claim model.Claim) ([]model.EvidenceItem, error) {
	params := url.Values{}
	params.Set("access_key", m.apiKey)
	params.Set("keywords", claim.Text)
	if m.language != "" {
		params.Set("languages", m.language)
	}
	if m.max > 0 {
		params.Set("limit", itoa(m.max))
	}

	var resp mediastackResponse
	if err := m.client.GetJSON(ctx, m.endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCollectorUnavailable, m.Name(), err)
	}
	// Mediastack reports quota and key errors with a 200 status
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrCollectorUnavailable, m.Name(), resp.Error.Code)
	}

	items := make([]model.EvidenceItem, 0, len(resp.Data))
	for _, a := range resp.Data {
		if item, ok := newItem(m.Name(), m.Kind(), a.Title, a.Description, a.URL, a.PublishedAt); ok {
			items = append(items, item)
		}
	}
	return limitItems(items, m.max), nil
}
