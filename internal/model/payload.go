package model

import "time"

// Payload is the presentation shape of a verdict.
// Slices and maps are always non-nil so consumers never see null.
type Payload struct {
	ID           string            `json:"id"`
	Claim        string            `json:"claim"`
	Label        Label             `json:"label"`
	Confidence   int               `json:"confidence"`
	Score        int               `json:"score"`
	Verdict      string            `json:"verdict"`
	Tier         Tier              `json:"tier"`
	Explanations []Explanation     `json:"explanations"`
	Counters     Counters          `json:"counters"`
	FactCheck    FactCheckSummary  `json:"fact_check"`
	Failed       map[string]string `json:"failed_collectors"`
	Articles     []Article         `json:"articles"`
	AnalyzedAt   time.Time         `json:"analyzed_at"`
}

// Explanation is one human-readable line per fired signal
type Explanation struct {
	Signal SignalName `json:"signal"`
	Text   string     `json:"text"`
	Stance Stance     `json:"stance"`
	Points int        `json:"points"`
}

// Counters aggregates evidence volume and quality
type Counters struct {
	SourcesFound               map[string]int `json:"sources_found"`
	SearchResults              int            `json:"search_results"`
	ArticlesFound              int            `json:"articles_found"`
	TrustedHits                int            `json:"trusted_hits"`
	TrustedDomains             []string       `json:"trusted_domains"`
	FakeDomains                []string       `json:"fake_domains"`
	BestSimilarity             float64        `json:"best_similarity"`
	AvgCorroborationSimilarity float64        `json:"avg_corroboration_similarity"`
}

// FactCheckSummary is the considered fact-check, zero-valued when none was found
type FactCheckSummary struct {
	Found     bool   `json:"found"`
	Claim     string `json:"claim"`
	Rating    string `json:"rating"`
	Publisher string `json:"publisher"`
	URL       string `json:"url"`
	Date      string `json:"date"`
}

// Article is a corroborating evidence item shown to the user
type Article struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Domain     string  `json:"domain"`
	Source     string  `json:"source"`
	Trusted    bool    `json:"trusted"`
	Similarity float64 `json:"similarity"`
}

// Analysis is the complete outcome of analyzing one claim
type Analysis struct {
	Claim   Claim          `json:"claim"`
	Result  *VerdictResult `json:"result,omitempty"` // Nil when served from cache
	Payload Payload        `json:"payload"`
	Cached  bool           `json:"cached"`
}
