package extract

import (
	"errors"
	"testing"
)

func TestNormalizeClaim(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  NASA finds water on Mars  ", "NASA finds water on Mars"},
		{`"NASA finds water on Mars"`, "NASA finds water on Mars"},
		{`'NASA finds water on Mars'`, "NASA finds water on Mars"},
		{"“NASA finds water on Mars”", "NASA finds water on Mars"},
		{"Breaking: NASA finds water on Mars", "NASA finds water on Mars"},
		{"BREAKING : NASA finds water on Mars", "NASA finds water on Mars"},
		{"exclusive:NASA finds water on Mars", "NASA finds water on Mars"},
		{`"Update: NASA finds water on Mars"`, "NASA finds water on Mars"},
		{"Breaking: Update: NASA finds water on Mars", "NASA finds water on Mars"},
		{"Breaking news: NASA finds water", "Breaking news: NASA finds water"},
		{"Reporters say it will rain", "Reporters say it will rain"},
		{`He said "yes"`, `He said "yes"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeClaim(tt.input)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("NormalizeClaim(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeClaim_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", `""`, `" "`, "breaking:", "  'Update:  ' "} {
		_, err := NormalizeClaim(input)
		if !errors.Is(err, ErrEmptyClaim) {
			t.Errorf("NormalizeClaim(%q): expected ErrEmptyClaim, got %v", input, err)
		}
	}
}

func TestNormalizeClaim_Idempotent(t *testing.T) {
	inputs := []string{
		"plain claim",
		`"'nested quotes'"`,
		"Breaking: Exclusive: report: stacked",
		"  ‘Update : spaced’  ",
		`"Report: 'inner' text"`,
		"update",
		"x",
		`"`,
		"“”",
		"Breaking: \"quoted after prefix\"",
	}

	for _, input := range inputs {
		once, err := NormalizeClaim(input)
		if err != nil {
			continue
		}
		twice, err := NormalizeClaim(once)
		if err != nil {
			t.Fatalf("second normalization of %q failed: %v", input, err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNewClaim_KeepsRaw(t *testing.T) {
	claim, err := NewClaim(`  "Breaking: Moon made of cheese"  `)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claim.Text != "Moon made of cheese" {
		t.Errorf("Unexpected text: %q", claim.Text)
	}
	if claim.Raw != `  "Breaking: Moon made of cheese"  ` {
		t.Errorf("Raw input not preserved: %q", claim.Raw)
	}
}
