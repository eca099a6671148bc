package collect

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed/rss"

	"github.com/ppiankov/veracity/internal/extract"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/validate"
)

const googleNewsURL = "https://news.google.com/rss/search"

// GoogleNews searches the Google News RSS feed. It needs no API key.
type GoogleNews struct {
	client   *Client
	endpoint string
	region   string // ceid, e.g. "IN:en"
	max      int
}

func (g *GoogleNews) Name() string             { return NameGoogleNews }
func (g *GoogleNews) Kind() model.EvidenceKind { return model.EvidenceKindNews }

// Search returns feed items. Item links point at news.google.com redirects,
// so the publisher domain is taken from the <source url> element.
func (g *GoogleNews) Search(ctx context.Context, claim model.Claim) ([]model.EvidenceItem, error) {
	body, err := g.client.Get(ctx, g.endpoint, g.params(claim.Text), "application/rss+xml, application/xml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCollectorUnavailable, g.Name(), err)
	}

	parser := &rss.Parser{}
	feed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse feed: %w", ErrCollectorUnavailable, g.Name(), err)
	}

	items := make([]model.EvidenceItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		publisher := ""
		if entry.Source != nil {
			publisher = entry.Source.Title
		}
		title := extract.StripPublisherSuffix(entry.Title, publisher)

		item, ok := newItem(g.Name(), g.Kind(), title, entry.Description, entry.Link, entry.PubDate)
		if !ok {
			continue
		}
		if entry.Source != nil && entry.Source.URL != "" {
			item.Domain = validate.Host(entry.Source.URL)
		}
		items = append(items, item)
	}
	return limitItems(items, g.max), nil
}

func (g *GoogleNews) params(query string) url.Values {
	region := g.region
	if region == "" {
		region = "US:en"
	}
	country, lang, _ := strings.Cut(region, ":")
	if lang == "" {
		lang = "en"
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", lang+"-"+country)
	params.Set("gl", country)
	params.Set("ceid", country+":"+lang)
	return params
}
