package validate

import (
	"net/url"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// DomainClassifier classifies hostnames against the trusted and known-fake sets
type DomainClassifier struct {
	trusted map[string]bool
	fake    map[string]bool
}

// NewDomainClassifier creates a new domain classifier
func NewDomainClassifier(config *model.DomainConfig) *DomainClassifier {
	if config == nil {
		config = &model.DefaultConfig().Domains
	}

	classifier := &DomainClassifier{
		trusted: make(map[string]bool, len(config.Trusted)),
		fake:    make(map[string]bool, len(config.Fake)),
	}

	for _, domain := range config.Trusted {
		if d := normalizeHost(domain); d != "" {
			classifier.trusted[d] = true
		}
	}
	for _, domain := range config.Fake {
		if d := normalizeHost(domain); d != "" {
			classifier.fake[d] = true
		}
	}

	return classifier
}

// Host extracts the bare lowercase hostname from a URL.
// Returns "" when nothing usable can be parsed.
func Host(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	// Schemeless input such as "bbc.com/news" parses as a path, and
	// "bbc.com:8080/news" parses as scheme "bbc.com" with an opaque port
	if parsed.Host == "" && (parsed.Scheme == "" || hasOpaquePort(parsed)) {
		parsed, err = url.Parse("http://" + rawURL)
		if err != nil {
			return ""
		}
	}

	return normalizeHost(parsed.Hostname())
}

func hasOpaquePort(u *url.URL) bool {
	return u.Opaque != "" && u.Opaque[0] >= '0' && u.Opaque[0] <= '9'
}

// Classify classifies the domain of a URL
func (c *DomainClassifier) Classify(rawURL string) model.DomainVerdict {
	return c.ClassifyHost(Host(rawURL))
}

// ClassifyHost classifies an already extracted hostname
func (c *DomainClassifier) ClassifyHost(host string) model.DomainVerdict {
	host = normalizeHost(host)
	return model.DomainVerdict{
		Domain:      host,
		IsTrusted:   host != "" && c.trusted[host],
		IsKnownFake: host != "" && c.fake[host],
	}
}

// normalizeHost lowercases a hostname and strips a single leading "www."
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	host = strings.TrimPrefix(host, "www.")

	if host == "" || strings.ContainsAny(host, " /\\@") {
		return ""
	}
	return host
}
