package model

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultConfig_Validates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
}

func TestScoreConfig_FakeFloor(t *testing.T) {
	tests := []struct {
		name      string
		real      int
		uncertain int
		maxConf   int
		expected  int
	}{
		{"defaults", 70, 45, 85, 56},
		{"uncertain above midpoint", 80, 55, 85, 50},
		{"uncertain on midpoint", 70, 50, 85, 51},
		{"capped by max evidence confidence", 70, 30, 60, 60},
		{"low cap", 70, 45, 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultConfig().Score
			s.RealCutoff = tt.real
			s.UncertainCutoff = tt.uncertain
			s.MaxEvidenceConfidence = tt.maxConf

			if got := s.FakeFloor(); got != tt.expected {
				t.Errorf("FakeFloor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name: "cut points above the midpoint",
			mutate: func(c *Config) {
				c.Score.RealCutoff = 80
				c.Score.UncertainCutoff = 55
			},
		},
		{
			name:    "evidence confidence cap at no-evidence ceiling",
			mutate:  func(c *Config) { c.Score.MaxEvidenceConfidence = 40 },
			wantErr: "FAKE floor",
		},
		{
			name:    "cut points out of order",
			mutate:  func(c *Config) { c.Score.RealCutoff = 40 },
			wantErr: "cut points",
		},
		{
			name:    "similarity thresholds reversed",
			mutate:  func(c *Config) { c.Similarity.Partial = 0.9 },
			wantErr: "similarity thresholds",
		},
		{
			name:    "override not above evidence confidence",
			mutate:  func(c *Config) { c.FactCheck.OverrideConfidence = 85 },
			wantErr: "override_confidence",
		},
		{
			name:    "tiebreaker as strong as a trusted domain",
			mutate:  func(c *Config) { c.Tiebreaker.MaxPoints = 25 },
			wantErr: "tiebreaker.max_points",
		},
		{
			name:    "domain both trusted and fake",
			mutate:  func(c *Config) { c.Domains.Fake = append(c.Domains.Fake, "www.BBC.com") },
			wantErr: "both trusted and fake",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected valid config, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
