package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig is returned when configuration values contradict each other
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete Veracity configuration.
// Everything here is data: it can be overridden from the config file or environment.
type Config struct {
	Domains     DomainConfig      `yaml:"domains" mapstructure:"domains"`
	FactCheck   FactCheckConfig   `yaml:"fact_check" mapstructure:"fact_check"`
	Similarity  SimilarityConfig  `yaml:"similarity" mapstructure:"similarity"`
	Score       ScoreConfig       `yaml:"score" mapstructure:"score"`
	NoEvidence  NoEvidenceConfig  `yaml:"no_evidence" mapstructure:"no_evidence"`
	Tiebreaker  TiebreakerConfig  `yaml:"tiebreaker" mapstructure:"tiebreaker"`
	Collectors  CollectorsConfig  `yaml:"collectors" mapstructure:"collectors"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
}

// DomainConfig holds the static trust sets
type DomainConfig struct {
	Trusted []string `yaml:"trusted" mapstructure:"trusted"`
	Fake    []string `yaml:"fake" mapstructure:"fake"`
}

// FactCheckConfig controls the fact-check override tier
type FactCheckConfig struct {
	WindowDays         int     `yaml:"window_days" mapstructure:"window_days"`
	MinClaimSimilarity float64 `yaml:"min_claim_similarity" mapstructure:"min_claim_similarity"` // 0 disables the check
	OverrideConfidence int     `yaml:"override_confidence" mapstructure:"override_confidence"`
	OverridePoints     int     `yaml:"override_points" mapstructure:"override_points"` // Reported in the breakdown
}

// SimilarityConfig holds the two similarity thresholds
type SimilarityConfig struct {
	High          float64 `yaml:"high" mapstructure:"high"`
	Partial       float64 `yaml:"partial" mapstructure:"partial"`
	HighBonus     int     `yaml:"high_bonus" mapstructure:"high_bonus"`
	PartialBonus  int     `yaml:"partial_bonus" mapstructure:"partial_bonus"`
	SnippetLength int     `yaml:"snippet_length" mapstructure:"snippet_length"`
}

// ScoreConfig holds the weighted-tier constants
type ScoreConfig struct {
	Baseline              int `yaml:"baseline" mapstructure:"baseline"`
	Min                   int `yaml:"min" mapstructure:"min"`
	Max                   int `yaml:"max" mapstructure:"max"`
	RealCutoff            int `yaml:"real_cutoff" mapstructure:"real_cutoff"`
	UncertainCutoff       int `yaml:"uncertain_cutoff" mapstructure:"uncertain_cutoff"`
	MaxEvidenceConfidence int `yaml:"max_evidence_confidence" mapstructure:"max_evidence_confidence"`

	TrustedDomainBonus   int `yaml:"trusted_domain_bonus" mapstructure:"trusted_domain_bonus"`
	TrustedDomainCap     int `yaml:"trusted_domain_cap" mapstructure:"trusted_domain_cap"`
	FakeDomainPenalty    int `yaml:"fake_domain_penalty" mapstructure:"fake_domain_penalty"`
	VolumeHighCount      int `yaml:"volume_high_count" mapstructure:"volume_high_count"`
	VolumeHighBonus      int `yaml:"volume_high_bonus" mapstructure:"volume_high_bonus"`
	VolumeLowBonus       int `yaml:"volume_low_bonus" mapstructure:"volume_low_bonus"`
	TrustedNewsBonus     int `yaml:"trusted_news_bonus" mapstructure:"trusted_news_bonus"`
	CorroborationSamples int `yaml:"corroboration_samples" mapstructure:"corroboration_samples"`
}

// NoEvidenceConfig controls the zero-evidence fallback
type NoEvidenceConfig struct {
	Confidence    int `yaml:"confidence" mapstructure:"confidence"`
	TiebreakerMax int `yaml:"tiebreaker_max" mapstructure:"tiebreaker_max"`
}

// TiebreakerConfig configures the optional statistical classifier
type TiebreakerConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "", "service", "openai", "ollama"
	Model     string `yaml:"model" mapstructure:"model"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	MaxPoints int    `yaml:"max_points" mapstructure:"max_points"`
}

// CollectorsConfig holds API credentials and the per-collector timeout
type CollectorsConfig struct {
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxResults       int           `yaml:"max_results" mapstructure:"max_results"`
	Language         string        `yaml:"language" mapstructure:"language"`
	GoogleNewsRSS    bool          `yaml:"google_news_rss" mapstructure:"google_news_rss"`
	GoogleNewsRegion string        `yaml:"google_news_region" mapstructure:"google_news_region"`

	FactCheckAPIKey  string `yaml:"-" mapstructure:"fact_check_api_key"`
	GoogleAPIKey     string `yaml:"-" mapstructure:"google_api_key"`
	GoogleCSEID      string `yaml:"google_cse_id" mapstructure:"google_cse_id"`
	SerpAPIKey       string `yaml:"-" mapstructure:"serpapi_key"`
	NewsDataAPIKey   string `yaml:"-" mapstructure:"newsdata_api_key"`
	GNewsAPIKey      string `yaml:"-" mapstructure:"gnews_api_key"`
	MediastackAPIKey string `yaml:"-" mapstructure:"mediastack_api_key"`

	// Endpoint overrides, used by tests and self-hosted mirrors
	Endpoints map[string]string `yaml:"endpoints,omitempty" mapstructure:"endpoints"`
}

// HTTPConfig holds transport settings shared by every collector
type HTTPConfig struct {
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig controls the cross-request verdict cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Empty keeps the cache in memory only
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig limits requests per API host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// ServerConfig configures the HTTP endpoint
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"` // Bounds one analysis
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the canonical configuration
func DefaultConfig() *Config {
	return &Config{
		Domains: DomainConfig{
			Trusted: []string{
				"thehindu.com", "bbc.com", "bbc.co.uk", "reuters.com", "apnews.com",
				"ndtv.com", "indianexpress.com", "hindustantimes.com", "livemint.com",
				"timesofindia.indiatimes.com", "economictimes.indiatimes.com",
				"theguardian.com", "nytimes.com", "washingtonpost.com", "aljazeera.com",
				"cnn.com", "abc.net.au", "theprint.in", "scroll.in", "thewire.in",
				"news18.com", "indiatoday.in", "bloomberg.com", "ft.com", "dw.com",
			},
			Fake: []string{
				"theonion.com", "babylonbee.com", "nationalreport.net",
				"worldnewsdailyreport.com", "empirenews.net",
			},
		},
		FactCheck: FactCheckConfig{
			WindowDays:         90,
			MinClaimSimilarity: 0,
			OverrideConfidence: 95,
			OverridePoints:     40,
		},
		Similarity: SimilarityConfig{
			High:          0.65,
			Partial:       0.40,
			HighBonus:     20,
			PartialBonus:  10,
			SnippetLength: 200,
		},
		Score: ScoreConfig{
			Baseline:              50,
			Min:                   0,
			Max:                   100,
			RealCutoff:            70,
			UncertainCutoff:       45,
			MaxEvidenceConfidence: 85,
			TrustedDomainBonus:    25,
			TrustedDomainCap:      50,
			FakeDomainPenalty:     30,
			VolumeHighCount:       3,
			VolumeHighBonus:       10,
			VolumeLowBonus:        5,
			TrustedNewsBonus:      5,
			CorroborationSamples:  10,
		},
		NoEvidence: NoEvidenceConfig{
			Confidence:    30,
			TiebreakerMax: 10,
		},
		Tiebreaker: TiebreakerConfig{
			MaxPoints: 10,
		},
		Collectors: CollectorsConfig{
			Timeout:          7 * time.Second,
			MaxResults:       10,
			Language:         "en",
			GoogleNewsRSS:    true,
			GoogleNewsRegion: "IN:en",
		},
		HTTP: HTTPConfig{
			UserAgent:    "Veracity/0.1 (+https://github.com/ppiankov/veracity)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   6 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			RequestTimeout:  20 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    16 << 10,
		},
	}
}

// FakeFloor is the lowest confidence an evidence-backed FAKE verdict can carry.
// FAKE scores end at UncertainCutoff-1 and confidence grows with distance from
// the midpoint, capped at MaxEvidenceConfidence.
func (s ScoreConfig) FakeFloor() int {
	mid := (s.Min + s.Max) / 2
	nearest := s.UncertainCutoff - 1
	if nearest > mid {
		nearest = mid
	}
	floor := mid + (mid - nearest)
	if s.MaxEvidenceConfidence < floor {
		floor = s.MaxEvidenceConfidence
	}
	return floor
}

// Validate checks that the scoring constants keep their ordering guarantees
func (c *Config) Validate() error {
	var problems []string
	s := c.Score

	if s.Min >= s.Max {
		problems = append(problems, fmt.Sprintf("score.min (%d) must be below score.max (%d)", s.Min, s.Max))
	}
	if !(s.Min < s.UncertainCutoff && s.UncertainCutoff < s.RealCutoff && s.RealCutoff <= s.Max) {
		problems = append(problems, fmt.Sprintf("cut points must satisfy min < uncertain (%d) < real (%d) <= max", s.UncertainCutoff, s.RealCutoff))
	}
	if !(0 <= c.Similarity.Partial && c.Similarity.Partial < c.Similarity.High && c.Similarity.High <= 1) {
		problems = append(problems, fmt.Sprintf("similarity thresholds must satisfy 0 <= partial (%.2f) < high (%.2f) <= 1", c.Similarity.Partial, c.Similarity.High))
	}
	if c.FactCheck.WindowDays <= 0 {
		problems = append(problems, "fact_check.window_days must be positive")
	}
	if c.FactCheck.OverrideConfidence <= s.MaxEvidenceConfidence || c.FactCheck.OverrideConfidence > 100 {
		problems = append(problems, "fact_check.override_confidence must exceed score.max_evidence_confidence and be at most 100")
	}
	if s.VolumeHighBonus >= s.TrustedDomainBonus || s.VolumeLowBonus > s.VolumeHighBonus {
		problems = append(problems, "corroboration volume bonuses must stay below the trusted domain bonus")
	}
	if c.Tiebreaker.MaxPoints < 0 || c.Tiebreaker.MaxPoints >= s.TrustedDomainBonus {
		problems = append(problems, "tiebreaker.max_points must be below the trusted domain bonus")
	}
	if c.NoEvidence.Confidence < 0 || c.NoEvidence.Confidence+c.NoEvidence.TiebreakerMax >= s.FakeFloor() {
		problems = append(problems, fmt.Sprintf("no_evidence confidence plus tiebreaker must stay below the FAKE floor (%d)", s.FakeFloor()))
	}

	trusted := make(map[string]bool)
	for _, d := range c.Domains.Trusted {
		trusted[normalizeDomainEntry(d)] = true
	}
	for _, d := range c.Domains.Fake {
		if trusted[normalizeDomainEntry(d)] {
			problems = append(problems, fmt.Sprintf("domain %q is both trusted and fake", d))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func normalizeDomainEntry(d string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
}
