package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/util"
)

// ServiceClassifier calls an HTTP ML service that wraps a trained text model
type ServiceClassifier struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type predictRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// PredictResponse is the response body from /predict.
// Either Label+Probability or a per-class Probabilities map is accepted.
type PredictResponse struct {
	Label         string             `json:"label"`
	Probability   float64            `json:"probability"`
	Probabilities map[string]float64 `json:"probabilities"`
	Model         string             `json:"model"`
}

// NewServiceClassifier creates a new ML service client
func NewServiceClassifier(config Config) (*ServiceClassifier, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("ML service base URL is required")
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &ServiceClassifier{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
	}, nil
}

// Name returns the backend name
func (c *ServiceClassifier) Name() string {
	return "service"
}

// Classify sends the claim to POST {baseURL}/predict
func (c *ServiceClassifier) Classify(ctx context.Context, claim model.Claim) (*model.Prediction, error) {
	body, err := json.Marshal(predictRequest{Text: claim.Text, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var result PredictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}

	modelName := result.Model
	if modelName == "" {
		modelName = c.model
	}

	if len(result.Probabilities) > 0 {
		pReal, pFake := lookupClass(result.Probabilities, "REAL"), lookupClass(result.Probabilities, "FAKE")
		if pReal >= pFake {
			return NewPrediction("REAL", pReal, modelName)
		}
		return NewPrediction("FAKE", pFake, modelName)
	}

	prediction, err := NewPrediction(result.Label, result.Probability, modelName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return prediction, nil
}

func lookupClass(probs map[string]float64, class string) float64 {
	for k, v := range probs {
		if strings.EqualFold(k, class) {
			return v
		}
	}
	return 0
}
