package collect

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

const googleFactCheckURL = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

// GoogleFactCheck queries the Google Fact Check Tools claims:search API
type GoogleFactCheck struct {
	client   *Client
	endpoint string
	apiKey   string
	language string
	pageSize int
}

type factCheckResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimDate   string `json:"claimDate"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			ReviewDate    string `json:"reviewDate"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Name returns the collector name
func (f *GoogleFactCheck) Name() string { return NameGoogleFactCheck }

// Lookup returns one record per matched claim, in API relevance order.
// Only the first review of each claim is used.
func (f *GoogleFactCheck) Lookup(ctx context.Context, claim model.Claim) ([]model.FactCheckRecord, error) {
	params := url.Values{}
	params.Set("query", claim.Text)
	params.Set("key", f.apiKey)
	if f.language != "" {
		params.Set("languageCode", f.language)
	}
	if f.pageSize > 0 {
		params.Set("pageSize", itoa(f.pageSize))
	}

	var resp factCheckResponse
	if err := f.client.GetJSON(ctx, f.endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCollectorUnavailable, f.Name(), err)
	}

	records := make([]model.FactCheckRecord, 0, len(resp.Claims))
	for _, c := range resp.Claims {
		if len(c.ClaimReview) == 0 {
			continue
		}
		review := c.ClaimReview[0]

		publisher := review.Publisher.Name
		if publisher == "" {
			publisher = review.Publisher.Site
		}
		published := review.ReviewDate
		if published == "" {
			published = c.ClaimDate
		}

		records = append(records, model.FactCheckRecord{
			ClaimText:   strings.TrimSpace(c.Text),
			Rating:      strings.TrimSpace(review.TextualRating),
			Publisher:   publisher,
			ReviewURL:   review.URL,
			PublishedAt: published,
		})
	}
	return records, nil
}
