// Package classifier provides the optional statistical tiebreaker.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

// ErrUnavailable indicates the classifier backend is unreachable or misbehaving
var ErrUnavailable = errors.New("classifier unavailable")

// Classifier predicts whether a claim reads as REAL or FAKE
type Classifier interface {
	// Name returns the backend name
	Name() string

	// Classify returns a prediction whose Probability is that of its Label
	Classify(ctx context.Context, claim model.Claim) (*model.Prediction, error)
}

// Config holds classifier backend configuration
type Config struct {
	// Provider name: "service", "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for the ML service, Ollama, or an OpenAI-compatible endpoint
	BaseURL string

	// Timeout for a single request
	Timeout time.Duration

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

const systemPrompt = `You are a news headline classifier. Decide whether the headline reads like genuine reporting (REAL) or fabricated/satirical content (FAKE).
Respond with a JSON object only: {"label": "REAL" or "FAKE", "probability": number between 0.5 and 1}.`

// BuildPrompt constructs the user prompt for LLM-backed classifiers
func BuildPrompt(claim model.Claim) string {
	return fmt.Sprintf("Headline: %q", claim.Text)
}

// llmAnswer is the JSON shape LLM backends are asked to produce
type llmAnswer struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// parseAnswer extracts a prediction from an LLM text response
func parseAnswer(text, modelName string) (*model.Prediction, error) {
	text = strings.TrimSpace(text)
	// Some models wrap JSON in a markdown fence
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var answer llmAnswer
	if err := json.Unmarshal([]byte(text[start:end+1]), &answer); err != nil {
		return nil, fmt.Errorf("unmarshal answer: %w", err)
	}
	return NewPrediction(answer.Label, answer.Probability, modelName)
}

// NewPrediction normalizes a label and probability into a Prediction.
// A probability below 0.5 is read as the opposite label.
func NewPrediction(label string, probability float64, modelName string) (*model.Prediction, error) {
	var l model.Label
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "REAL", "TRUE", "1":
		l = model.LabelReal
	case "FAKE", "FALSE", "0":
		l = model.LabelFake
	default:
		return nil, fmt.Errorf("unknown label %q", label)
	}

	if probability < 0 || probability > 1 {
		return nil, fmt.Errorf("probability %.3f out of range", probability)
	}
	if probability < 0.5 {
		probability = 1 - probability
		if l == model.LabelReal {
			l = model.LabelFake
		} else {
			l = model.LabelReal
		}
	}

	return &model.Prediction{Label: l, Probability: probability, Model: modelName}, nil
}
