package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

// New creates a classifier based on configuration.
// An empty provider disables the tiebreaker and returns nil, nil.
func New(config Config) (Classifier, error) {
	switch strings.ToLower(config.Provider) {
	case "service", "ml":
		return NewServiceClassifier(config)

	case "openai":
		return NewOpenAIClassifier(config)

	case "ollama":
		return NewOllamaClassifier(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown classifier provider: %s (supported: service, openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the tiebreaker and HTTP sections into a classifier Config
func ConfigFromModel(tb model.TiebreakerConfig, httpCfg model.HTTPConfig, timeout time.Duration) Config {
	return Config{
		Provider:   tb.Provider,
		Model:      tb.Model,
		APIKey:     tb.APIKey,
		BaseURL:    tb.BaseURL,
		Timeout:    timeout,
		HTTPProxy:  httpCfg.HTTPProxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
		NoProxy:    httpCfg.NoProxy,
	}
}
