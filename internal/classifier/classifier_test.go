package classifier

import (
	"testing"

	"github.com/ppiankov/veracity/internal/model"
)

func TestNewPrediction(t *testing.T) {
	tests := []struct {
		label     string
		prob      float64
		wantLabel model.Label
		wantProb  float64
		wantErr   bool
	}{
		{"REAL", 0.8, model.LabelReal, 0.8, false},
		{"fake", 0.9, model.LabelFake, 0.9, false},
		{"True", 0.7, model.LabelReal, 0.7, false},
		{"REAL", 0.2, model.LabelFake, 0.8, false},
		{"maybe", 0.9, "", 0, true},
		{"REAL", 1.5, "", 0, true},
	}

	for _, tt := range tests {
		p, err := NewPrediction(tt.label, tt.prob, "m")
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewPrediction(%q, %v) expected error", tt.label, tt.prob)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewPrediction(%q, %v) failed: %v", tt.label, tt.prob, err)
		}
		if p.Label != tt.wantLabel || abs(p.Probability-tt.wantProb) > 1e-9 {
			t.Errorf("NewPrediction(%q, %v) = %+v, want %s/%v", tt.label, tt.prob, p, tt.wantLabel, tt.wantProb)
		}
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		text    string
		want    model.Label
		wantErr bool
	}{
		{`{"label": "FAKE", "probability": 0.91}`, model.LabelFake, false},
		{"```json\n{\"label\": \"REAL\", \"probability\": 0.6}\n```", model.LabelReal, false},
		{`Sure! {"label":"REAL","probability":0.75} Hope that helps.`, model.LabelReal, false},
		{`I cannot decide`, "", true},
		{`{"label": "REAL", "probability": "high"}`, "", true},
	}

	for _, tt := range tests {
		p, err := parseAnswer(tt.text, "m")
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAnswer(%q) expected error", tt.text)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAnswer(%q) failed: %v", tt.text, err)
			continue
		}
		if p.Label != tt.want {
			t.Errorf("parseAnswer(%q) label = %s, want %s", tt.text, p.Label, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	c, err := New(Config{})
	if err != nil || c != nil {
		t.Errorf("empty provider should disable the classifier, got %v, %v", c, err)
	}

	if _, err := New(Config{Provider: "anthropic"}); err == nil {
		t.Error("expected error for unsupported provider")
	}
	if _, err := New(Config{Provider: "openai"}); err == nil {
		t.Error("expected error for OpenAI without API key")
	}
	if _, err := New(Config{Provider: "ollama"}); err == nil {
		t.Error("expected error for Ollama without model")
	}
	if _, err := New(Config{Provider: "service"}); err == nil {
		t.Error("expected error for service without base URL")
	}

	c, err = New(Config{Provider: "Service", BaseURL: "http://localhost:8000"})
	if err != nil {
		t.Fatalf("New(service) failed: %v", err)
	}
	if c.Name() != "service" {
		t.Errorf("Name = %q, want service", c.Name())
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
