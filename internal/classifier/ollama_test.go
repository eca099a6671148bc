package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

func TestOllamaClassifier_Classify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Format != "json" || req.Stream {
			t.Errorf("Expected non-streaming JSON request, got %+v", req)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    "llama3.1",
			Response: `{"label": "REAL", "probability": 0.66}`,
			Done:     true,
		})
	}))
	defer server.Close()

	c, err := NewOllamaClassifier(Config{BaseURL: server.URL + "/", Model: "llama3.1", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}

	p, err := c.Classify(context.Background(), model.Claim{Text: "Water found on Mars"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if p.Label != model.LabelReal || p.Probability != 0.66 || p.Model != "llama3.1" {
		t.Errorf("Unexpected prediction: %+v", p)
	}
}

func TestOllamaClassifier_Classify_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not loaded"}`))
	}))
	defer server.Close()

	c, _ := NewOllamaClassifier(Config{BaseURL: server.URL, Model: "llama3.1"})
	_, err := c.Classify(context.Background(), model.Claim{Text: "x"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("Expected error message to contain API error, got %v", err)
	}
}

func TestOllamaClassifier_Classify_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	c, _ := NewOllamaClassifier(Config{BaseURL: server.URL, Model: "llama3.1"})
	if _, err := c.Classify(context.Background(), model.Claim{Text: "x"}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}
