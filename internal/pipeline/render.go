package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// Renderer writes payloads as JSON, Markdown and a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the payload as indented JSON
func (r *Renderer) RenderJSON(payload model.Payload, path string) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(payload model.Payload, path string) error {
	return writeFile(path, []byte(r.Markdown(payload)))
}

// Markdown renders the payload as a Markdown document
func (r *Renderer) Markdown(payload model.Payload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Veracity Report\n\n")
	fmt.Fprintf(&b, "> %s\n\n", payload.Claim)

	fmt.Fprintf(&b, "## Verdict: %s\n\n", payload.Verdict)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Label | **%s** |\n", payload.Label)
	fmt.Fprintf(&b, "| Confidence | %d%% |\n", payload.Confidence)
	fmt.Fprintf(&b, "| Score | %d/100 |\n", payload.Score)
	fmt.Fprintf(&b, "| Decided by | %s |\n", tierName(payload.Tier))
	if !payload.AnalyzedAt.IsZero() {
		fmt.Fprintf(&b, "| Analyzed | %s |\n", payload.AnalyzedAt.Format("2006-01-02 15:04 MST"))
	}
	b.WriteString("\n")

	if payload.Label == model.LabelNoEvidence {
		b.WriteString("No source returned anything about this claim. Absence of coverage is not proof that it is false.\n\n")
	}

	b.WriteString("## Signals\n\n")
	for _, e := range payload.Explanations {
		fmt.Fprintf(&b, "- %s %s (%+d)\n", stanceMark(e.Stance), e.Text, e.Points)
	}
	b.WriteString("\n")

	if fc := payload.FactCheck; fc.Found {
		b.WriteString("## Fact-check\n\n")
		fmt.Fprintf(&b, "- **Rating:** %s\n", fc.Rating)
		fmt.Fprintf(&b, "- **Publisher:** %s\n", fc.Publisher)
		if fc.Claim != "" {
			fmt.Fprintf(&b, "- **Reviewed claim:** %s\n", fc.Claim)
		}
		if fc.Date != "" {
			fmt.Fprintf(&b, "- **Date:** %s\n", fc.Date)
		}
		if fc.URL != "" {
			fmt.Fprintf(&b, "- **Source:** <%s>\n", fc.URL)
		}
		b.WriteString("\n")
	}

	c := payload.Counters
	b.WriteString("## Evidence\n\n")
	fmt.Fprintf(&b, "- Search results: %d\n", c.SearchResults)
	fmt.Fprintf(&b, "- News articles: %d\n", c.ArticlesFound)
	fmt.Fprintf(&b, "- Trusted hits: %d\n", c.TrustedHits)
	if len(c.TrustedDomains) > 0 {
		fmt.Fprintf(&b, "- Trusted domains: %s\n", strings.Join(c.TrustedDomains, ", "))
	}
	if len(c.FakeDomains) > 0 {
		fmt.Fprintf(&b, "- Known fake domains: %s\n", strings.Join(c.FakeDomains, ", "))
	}
	fmt.Fprintf(&b, "- Best similarity: %d%%\n", int(c.BestSimilarity*100))
	b.WriteString("\n")

	if len(payload.Articles) > 0 {
		b.WriteString("### Top articles\n\n")
		for i, a := range payload.Articles {
			trusted := ""
			if a.Trusted {
				trusted = " ✓"
			}
			fmt.Fprintf(&b, "%d. [%s](%s) · %s%s (%d%%)\n", i+1, escapeMarkdown(a.Title), a.URL, a.Domain, trusted, int(a.Similarity*100))
		}
		b.WriteString("\n")
	}

	if len(payload.Failed) > 0 {
		b.WriteString("### Unavailable sources\n\n")
		for _, name := range sortedNames(payload.Failed) {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Generated by Veracity. Verdicts combine automated signals and can be wrong; read the sources.*\n")
	}

	return b.String()
}

// RenderSummary prints a short verdict block
func (r *Renderer) RenderSummary(w io.Writer, payload model.Payload) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s  %s (%d%% confidence)\n", labelMark(payload.Label), payload.Verdict, payload.Confidence)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Claim:    %s\n", payload.Claim)
	fmt.Fprintf(w, "  Label:    %s\n", payload.Label)
	fmt.Fprintf(w, "  Score:    %d/100\n", payload.Score)
	fmt.Fprintf(w, "  Tier:     %s\n", tierName(payload.Tier))
	fmt.Fprintln(w)

	for _, e := range payload.Explanations {
		fmt.Fprintf(w, "  %s %s\n", stanceMark(e.Stance), e.Text)
	}

	if len(payload.Failed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Unavailable: %s\n", strings.Join(sortedNames(payload.Failed), ", "))
	}
	fmt.Fprintln(w)
}

// RenderReport writes the requested outputs and prints the summary to stdout
func (r *Renderer) RenderReport(payload model.Payload, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := r.RenderJSON(payload, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(payload, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	r.RenderSummary(os.Stdout, payload)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func tierName(t model.Tier) string {
	switch t {
	case model.TierFactCheck:
		return "published fact-check"
	case model.TierNoEvidence:
		return "no evidence fallback"
	default:
		return "weighted evidence"
	}
}

func labelMark(l model.Label) string {
	switch l {
	case model.LabelReal:
		return "✅"
	case model.LabelFake:
		return "❌"
	case model.LabelNoEvidence:
		return "❔"
	default:
		return "⚠️"
	}
}

func stanceMark(s model.Stance) string {
	switch s {
	case model.StanceSupports:
		return "✔"
	case model.StanceContradicts:
		return "✘"
	default:
		return "~"
	}
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
