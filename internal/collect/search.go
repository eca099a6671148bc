package collect

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ppiankov/veracity/internal/model"
)

const (
	serpAPIURL   = "https://serpapi.com/search.json"
	googleCSEURL = "https://www.googleapis.com/customsearch/v1"
)

// SerpAPI retrieves Google organic results through SerpAPI
type SerpAPI struct {
	client   *Client
	endpoint string
	apiKey   string
	num      int
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
	} `json:"organic_results"`
}

func (s *SerpAPI) Name() string             { return NameSerpAPI }
func (s *SerpAPI) Kind() model.EvidenceKind { return model.EvidenceKindSearch }

// Search returns organic web results
func (s *SerpAPI) Search(ctx context.Context, claim model.Claim) ([]model.EvidenceItem, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", claim.Text)
	params.Set("api_key", s.apiKey)
	if s.num > 0 {
		params.Set("num", itoa(s.num))
	}

	var resp serpAPIResponse
	if err := s.client.GetJSON(ctx, s.endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCollectorUnavailable, s.Name(), err)
	}

	items := make([]model.EvidenceItem, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		if item, ok := newItem(s.Name(), s.Kind(), r.Title, r.Snippet, r.Link, r.Date); ok {
			items = append(items, item)
		}
	}
	return limitItems(items, s.num), nil
}

// GoogleCSE retrieves results from the Google Custom Search JSON API
type GoogleCSE struct {
	client   *Client
	endpoint string
	apiKey   string
	cx       string
	num      int
}

type googleCSEResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func (g *GoogleCSE) Name() string             { return NameGoogleCSE }
func (g *GoogleCSE) Kind() model.EvidenceKind { return model.EvidenceKindSearch }

// Search returns custom search results; the API caps num at 10
func (g *GoogleCSE) Search(ctx context.Context, claim model.Claim) ([]model.EvidenceItem, error) {
	num := g.num
	if num <= 0 || num > 10 {
		num = 10
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("q", claim.Text)
	params.Set("num", itoa(num))

	var resp googleCSEResponse
	if err := g.client.GetJSON(ctx, g.endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCollectorUnavailable, g.Name(), err)
	}

	items := make([]model.EvidenceItem, 0, len(resp.Items))
	for _, r := range resp.Items {
		if item, ok := newItem(g.Name(), g.Kind(), r.Title, r.Snippet, r.Link, ""); ok {
			items = append(items, item)
		}
	}
	return items, nil
}
