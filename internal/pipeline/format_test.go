package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/veracity/internal/model"
)

func scored(title, link, domain string, trusted bool, sim float64) model.ScoredItem {
	return model.ScoredItem{
		Item:       model.EvidenceItem{Title: title, URL: link, Source: "gnews"},
		Verdict:    model.DomainVerdict{Domain: domain, IsTrusted: trusted},
		Similarity: sim,
	}
}

func TestFormat_EmptyCollectionsAreNeverNull(t *testing.T) {
	payload := Format(model.Claim{Text: "x"}, model.VerdictResult{Label: model.LabelNoEvidence}, model.EvidenceSet{})

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, field := range []string{`"explanations":null`, `"articles":null`, `"failed_collectors":null`,
		`"sources_found":null`, `"trusted_domains":null`, `"fake_domains":null`} {
		if strings.Contains(out, field) {
			t.Errorf("Payload contains %s: %s", field, out)
		}
	}
	if !strings.Contains(out, `"fact_check":{"found":false`) {
		t.Errorf("Expected empty fact_check object, got %s", out)
	}
}

func TestFormat_ExplanationsFollowSignals(t *testing.T) {
	result := model.VerdictResult{
		Label: model.LabelUncertain,
		Signals: model.SignalBreakdown{
			{Name: model.SignalBaseline, Points: 50, Stance: model.StanceAmbiguous, Description: "Neutral starting point"},
			{Name: model.SignalKnownFakeDomain, Points: -30, Stance: model.StanceContradicts, Description: "satire"},
		},
	}

	payload := Format(model.Claim{Text: "x"}, result, model.EvidenceSet{})

	if len(payload.Explanations) != 2 {
		t.Fatalf("Expected 2 explanations, got %d", len(payload.Explanations))
	}
	if e := payload.Explanations[1]; e.Signal != model.SignalKnownFakeDomain || e.Points != -30 || e.Stance != model.StanceContradicts {
		t.Errorf("Unexpected explanation %+v", e)
	}
}

func TestFormat_TopArticles(t *testing.T) {
	result := model.VerdictResult{Evidence: []model.ScoredItem{
		scored("low untrusted", "https://a.example/1", "a.example", false, 0.2),
		scored("high untrusted", "https://b.example/1", "b.example", false, 0.9),
		scored("trusted low", "https://bbc.com/1", "bbc.com", true, 0.1),
		scored("trusted high", "https://reuters.com/1", "reuters.com", true, 0.8),
		scored("duplicate", "https://reuters.com/1", "reuters.com", true, 0.8),
		scored("c", "https://c.example/1", "c.example", false, 0.5),
		scored("d", "https://d.example/1", "d.example", false, 0.4),
		scored("e", "https://e.example/1", "e.example", false, 0.3),
	}}

	payload := Format(model.Claim{Text: "x"}, result, model.EvidenceSet{})

	if len(payload.Articles) != MaxArticles {
		t.Fatalf("Expected %d articles, got %d", MaxArticles, len(payload.Articles))
	}
	want := []string{"trusted high", "trusted low", "high untrusted", "c", "d", "e"}
	for i, title := range want {
		if payload.Articles[i].Title != title {
			t.Errorf("article %d = %q, want %q", i, payload.Articles[i].Title, title)
		}
	}
	if payload.Counters.TrustedHits != 3 {
		t.Errorf("Expected 3 trusted hits, got %d", payload.Counters.TrustedHits)
	}
}

func TestFormat_CountersAndFailures(t *testing.T) {
	evidence := model.EvidenceSet{
		Search:   []model.EvidenceItem{{Title: "a"}},
		News:     []model.EvidenceItem{{Title: "b"}, {Title: "c"}},
		Counts:   map[string]int{"serpapi": 1, "gnews": 2, "newsdata": 0},
		Failures: map[string]string{"newsdata": "collector unavailable: newsdata: timed out"},
	}
	record := &model.FactCheckRecord{Rating: "Mixture", Publisher: "Snopes"}

	payload := Format(model.Claim{Text: "x"}, model.VerdictResult{FactCheck: record}, evidence)

	c := payload.Counters
	if c.SearchResults != 1 || c.ArticlesFound != 2 || c.SourcesFound["gnews"] != 2 {
		t.Errorf("Unexpected counters %+v", c)
	}
	if payload.Failed["newsdata"] == "" {
		t.Error("Expected failed collector in payload")
	}
	if !payload.FactCheck.Found || payload.FactCheck.Rating != "Mixture" {
		t.Errorf("Unexpected fact-check summary %+v", payload.FactCheck)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	payload := model.Payload{
		Claim:      "ISRO launches Chandrayaan-4",
		Label:      model.LabelReal,
		Confidence: 85,
		Score:      95,
		Verdict:    "Claim Verified",
		Tier:       model.TierWeighted,
		Explanations: []model.Explanation{
			{Signal: model.SignalTrustedDomain, Text: "Found on 2 trusted source(s)", Stance: model.StanceSupports, Points: 50},
		},
		Articles: []model.Article{{Title: "Launch [live]", URL: "https://bbc.com/1", Domain: "bbc.com", Trusted: true, Similarity: 0.9}},
		Failed:   map[string]string{"gnews": "quota"},
	}

	md := NewRenderer(true).Markdown(payload)
	for _, want := range []string{"## Verdict: Claim Verified", "**REAL**", "(+50)", `Launch \[live\]`, "- gnews", "Generated by Veracity"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}

	if strings.Contains(NewRenderer(false).Markdown(payload), "Generated by Veracity") {
		t.Error("Footer should be omitted when disabled")
	}
}

func TestRenderer_NoEvidenceNote(t *testing.T) {
	md := NewRenderer(false).Markdown(model.Payload{Label: model.LabelNoEvidence, Verdict: "No evidence found"})
	if !strings.Contains(md, "not proof that it is false") {
		t.Errorf("Expected NO_EVIDENCE disclaimer:\n%s", md)
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	payload := Format(model.Claim{Text: "x"}, model.VerdictResult{Label: model.LabelUncertain}, model.EvidenceSet{})

	if err := NewRenderer(false).RenderJSON(payload, path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.Payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Invalid JSON written: %v", err)
	}
	if decoded.Label != model.LabelUncertain {
		t.Errorf("Unexpected label %s", decoded.Label)
	}
}

func TestRenderer_Summary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).RenderSummary(&buf, model.Payload{
		Claim:   "x",
		Label:   model.LabelFake,
		Verdict: "Claim Disputed",
		Failed:  map[string]string{"serpapi": "down", "gnews": "down"},
	})

	out := buf.String()
	if !strings.Contains(out, "Claim Disputed") || !strings.Contains(out, "Unavailable: gnews, serpapi") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
}
