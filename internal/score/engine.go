package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ppiankov/veracity/internal/extract"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/similarity"
	"github.com/ppiankov/veracity/internal/validate"
)

// RatingAmbiguous is what ClassifyRating returns when a rating names neither outcome
const RatingAmbiguous model.Label = "AMBIGUOUS"

// Verdict phrases
const (
	VerdictVerified   = "Claim Verified"
	VerdictDisputed   = "Claim Disputed"
	VerdictUncertain  = "Insufficient Evidence"
	VerdictNoEvidence = "No evidence found"
)

// Negative keywords are tested first so "not true" and "unverified" read as false
var (
	falseKeywords = []string{"false", "fake", "mislead", "wrong", "incorrect", "debunk", "unverified", "not true"}
	trueKeywords  = []string{"true", "correct", "accurate", "real", "verified"}
)

// Engine turns an evidence set into a verdict
type Engine struct {
	cfg     *model.Config
	domains *validate.DomainClassifier
	recency *validate.RecencyFilter
}

// NewEngine creates a verdict engine. Nil arguments fall back to the defaults.
func NewEngine(cfg *model.Config, domains *validate.DomainClassifier, recency *validate.RecencyFilter) *Engine {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if domains == nil {
		domains = validate.NewDomainClassifier(&cfg.Domains)
	}
	if recency == nil {
		recency = validate.NewRecencyFilter(cfg.FactCheck.WindowDays)
	}
	return &Engine{cfg: cfg, domains: domains, recency: recency}
}

// ClassifyRating maps a free-text fact-check rating to FAKE, REAL or RatingAmbiguous
func ClassifyRating(rating string) model.Label {
	r := strings.ToLower(strings.TrimSpace(rating))
	if r == "" {
		return RatingAmbiguous
	}
	for _, kw := range falseKeywords {
		if strings.Contains(r, kw) {
			return model.LabelFake
		}
	}
	for _, kw := range trueKeywords {
		if strings.Contains(r, kw) {
			return model.LabelReal
		}
	}
	return RatingAmbiguous
}

// Evaluate runs the decision tiers in order: fact-check override, zero evidence,
// then weighted accumulation. Exactly one tier produces the result.
func (e *Engine) Evaluate(claim model.Claim, ev model.EvidenceSet) model.VerdictResult {
	result := e.classifyEvidence(claim, ev)

	record := e.consideredFactCheck(claim, ev.FactChecks)
	if record != nil {
		result.FactCheck = record
		if label := ClassifyRating(record.Rating); label != RatingAmbiguous {
			return e.factCheckOverride(result, *record, label)
		}
	}

	if len(ev.Search) == 0 && len(ev.News) == 0 && len(ev.FactChecks) == 0 {
		return e.noEvidence(result, ev.Prediction)
	}

	return e.weighted(result, ev)
}

// classifyEvidence fills the per-item classification and the aggregate counters
func (e *Engine) classifyEvidence(claim model.Claim, ev model.EvidenceSet) model.VerdictResult {
	result := model.VerdictResult{
		Counts:         make(map[string]int, len(ev.Counts)),
		TrustedDomains: []string{},
		FakeDomains:    []string{},
		Evidence:       []model.ScoredItem{},
		Signals:        model.SignalBreakdown{},
	}
	for k, v := range ev.Counts {
		result.Counts[k] = v
	}

	trusted := make(map[string]bool)
	fake := make(map[string]bool)

	for _, item := range ev.Items() {
		verdict := e.classifyItem(item)
		sim := similarity.Best(claim.Text, item.Title, item.Snippet, e.cfg.Similarity.SnippetLength)

		result.Evidence = append(result.Evidence, model.ScoredItem{Item: item, Verdict: verdict, Similarity: sim})

		if verdict.IsTrusted {
			trusted[verdict.Domain] = true
		}
		if verdict.IsKnownFake {
			fake[verdict.Domain] = true
		}
		if sim > result.BestSimilarity {
			result.BestSimilarity = sim
			result.BestMatch = item.Title
		}
	}

	result.TrustedDomains = sortedKeys(trusted)
	result.FakeDomains = sortedKeys(fake)

	samples := ev.News
	if n := e.cfg.Score.CorroborationSamples; n > 0 && len(samples) > n {
		samples = samples[:n]
	}
	if len(samples) > 0 {
		var sum float64
		for _, item := range samples {
			sum += similarity.Score(claim.Text, item.Title)
		}
		result.AvgCorroborationSimilarity = sum / float64(len(samples))
	}

	return result
}

func (e *Engine) classifyItem(item model.EvidenceItem) model.DomainVerdict {
	if item.Domain != "" {
		return e.domains.ClassifyHost(item.Domain)
	}
	return e.domains.Classify(item.URL)
}

// consideredFactCheck returns the first recent record that matches the claim closely enough
func (e *Engine) consideredFactCheck(claim model.Claim, records []model.FactCheckRecord) *model.FactCheckRecord {
	minSim := e.cfg.FactCheck.MinClaimSimilarity
	for _, r := range e.recency.Filter(records) {
		if minSim > 0 && similarity.Score(claim.Text, r.ClaimText) < minSim {
			continue
		}
		record := r
		return &record
	}
	return nil
}

func (e *Engine) factCheckOverride(result model.VerdictResult, record model.FactCheckRecord, label model.Label) model.VerdictResult {
	s := e.cfg.Score
	points := e.cfg.FactCheck.OverridePoints

	result.Tier = model.TierFactCheck
	result.Label = label
	result.Confidence = e.cfg.FactCheck.OverrideConfidence

	if label == model.LabelReal {
		result.Score = s.Max
		result.Verdict = VerdictVerified
	} else {
		points = -points
		result.Score = s.Min
		result.Verdict = VerdictDisputed
	}

	publisher := record.Publisher
	if publisher == "" {
		publisher = "unknown publisher"
	}

	result.Signals = append(result.Signals, model.Signal{
		Name:        model.SignalFactCheck,
		Points:      points,
		Stance:      model.StanceOf(points),
		Description: fmt.Sprintf("Fact-checked as %s by %s", strings.ToUpper(record.Rating), publisher),
		Data: map[string]interface{}{
			"rating":    record.Rating,
			"publisher": record.Publisher,
			"url":       record.ReviewURL,
			"age_days":  e.recency.AgeDays(record),
		},
	})
	return result
}

func (e *Engine) noEvidence(result model.VerdictResult, prediction *model.Prediction) model.VerdictResult {
	ne := e.cfg.NoEvidence

	result.Tier = model.TierNoEvidence
	result.Label = model.LabelNoEvidence
	result.Verdict = VerdictNoEvidence
	result.Score = e.cfg.Score.Baseline
	result.Signals = append(result.Signals, model.Signal{
		Name:        model.SignalNoEvidence,
		Points:      0,
		Stance:      model.StanceAmbiguous,
		Description: "No corroborating evidence found anywhere",
	})

	confidence := ne.Confidence
	if lean := tiebreakerLean(prediction, ne.TiebreakerMax); lean != 0 {
		// A FAKE lean makes the absence of evidence more telling
		confidence -= lean
		result.Signals = append(result.Signals, model.Signal{
			Name:        model.SignalTiebreaker,
			Points:      lean,
			Stance:      model.StanceOf(lean),
			Description: fmt.Sprintf("Statistical model leans %s (p=%.2f)", prediction.Label, prediction.Probability),
			Data: map[string]interface{}{
				"label":            prediction.Label,
				"probability":      prediction.Probability,
				"model":            prediction.Model,
				"confidence_delta": -lean,
			},
		})
	}

	ceiling := e.cfg.Score.FakeFloor() - 1
	result.Confidence = clamp(confidence, 0, ceiling)
	return result
}

func (e *Engine) weighted(result model.VerdictResult, ev model.EvidenceSet) model.VerdictResult {
	s := e.cfg.Score
	sim := e.cfg.Similarity
	signals := model.SignalBreakdown{{
		Name:        model.SignalBaseline,
		Points:      s.Baseline,
		Stance:      model.StanceAmbiguous,
		Description: "Neutral starting point",
	}}

	if result.FactCheck != nil {
		signals = append(signals, model.Signal{
			Name:        model.SignalFactCheck,
			Points:      0,
			Stance:      model.StanceAmbiguous,
			Description: fmt.Sprintf("Fact-check found but rating ambiguous: %s", result.FactCheck.Rating),
			Data:        map[string]interface{}{"rating": result.FactCheck.Rating, "publisher": result.FactCheck.Publisher},
		})
	}

	if n := len(result.TrustedDomains); n > 0 {
		points := n * s.TrustedDomainBonus
		if points > s.TrustedDomainCap {
			points = s.TrustedDomainCap
		}
		signals = append(signals, model.Signal{
			Name:        model.SignalTrustedDomain,
			Points:      points,
			Stance:      model.StanceSupports,
			Description: fmt.Sprintf("Found on %d trusted source(s): %s", n, strings.Join(head(result.TrustedDomains, 3), ", ")),
			Data: map[string]interface{}{
				"domains": result.TrustedDomains,
				"formula": fmt.Sprintf("min(distinct_trusted * %d, %d)", s.TrustedDomainBonus, s.TrustedDomainCap),
			},
		})
	}

	if len(result.FakeDomains) > 0 {
		signals = append(signals, model.Signal{
			Name:        model.SignalKnownFakeDomain,
			Points:      -s.FakeDomainPenalty,
			Stance:      model.StanceContradicts,
			Description: fmt.Sprintf("Found on known satire/fake domain: %s", strings.Join(result.FakeDomains, ", ")),
			Data:        map[string]interface{}{"domains": result.FakeDomains},
		})
	}

	if len(result.Evidence) > 0 {
		best := result.BestSimilarity
		pct := int(best * 100)
		match := extract.Truncate(result.BestMatch, 80)

		var points int
		var desc string
		switch {
		case best >= sim.High:
			points = sim.HighBonus
			desc = fmt.Sprintf("High similarity match (%d%%): %q", pct, match)
		case best >= sim.Partial:
			points = sim.PartialBonus
			desc = fmt.Sprintf("Partial match (%d%%): %q", pct, match)
		default:
			desc = fmt.Sprintf("Low similarity (%d%%), topic found but titles differ", pct)
		}
		signals = append(signals, model.Signal{
			Name:        model.SignalSimilarity,
			Points:      points,
			Stance:      model.StanceOf(points),
			Description: desc,
			Data: map[string]interface{}{
				"best":    best,
				"match":   result.BestMatch,
				"high":    sim.High,
				"partial": sim.Partial,
			},
		})
	}

	if n := len(ev.News); n > 0 {
		points := s.VolumeLowBonus
		if n >= s.VolumeHighCount {
			points = s.VolumeHighBonus
		}
		signals = append(signals, model.Signal{
			Name:        model.SignalCorroborationVolume,
			Points:      points,
			Stance:      model.StanceSupports,
			Description: fmt.Sprintf("%d news article(s) found", n),
			Data: map[string]interface{}{
				"articles":       n,
				"avg_similarity": result.AvgCorroborationSimilarity,
			},
		})
	}

	if trustedNews := e.countTrusted(ev.News); trustedNews > 0 {
		signals = append(signals, model.Signal{
			Name:        model.SignalTrustedCorroboration,
			Points:      s.TrustedNewsBonus,
			Stance:      model.StanceSupports,
			Description: fmt.Sprintf("%d trusted source(s) among news articles", trustedNews),
			Data:        map[string]interface{}{"trusted_articles": trustedNews},
		})
	}

	if ev.Prediction != nil {
		if signal, ok := e.tiebreaker(signals.Total(), ev.Prediction); ok {
			signals = append(signals, signal)
		}
	}

	result.Tier = model.TierWeighted
	result.Signals = signals
	result.Score = clamp(signals.Total(), s.Min, s.Max)
	result.Label = e.label(result.Score)
	result.Verdict = verdictText(result.Label)

	mid := (s.Min + s.Max) / 2
	confidence := mid + abs(result.Score-mid)
	if confidence > s.MaxEvidenceConfidence {
		confidence = s.MaxEvidenceConfidence
	}
	result.Confidence = confidence

	return result
}

// tiebreaker nudges the score toward the predicted label but never across a cut point
func (e *Engine) tiebreaker(total int, prediction *model.Prediction) (model.Signal, bool) {
	s := e.cfg.Score
	raw := tiebreakerPoints(prediction, e.cfg.Tiebreaker.MaxPoints)

	without := e.label(clamp(total, s.Min, s.Max))
	points := raw
	for points != 0 && e.label(clamp(total+points, s.Min, s.Max)) != without {
		if points > 0 {
			points--
		} else {
			points++
		}
	}

	// A nudge shrunk to nothing did not fire
	if points == 0 {
		return model.Signal{}, false
	}

	return model.Signal{
		Name:        model.SignalTiebreaker,
		Points:      points,
		Stance:      model.StanceOf(points),
		Description: fmt.Sprintf("Statistical model leans %s (p=%.2f)", prediction.Label, prediction.Probability),
		Data: map[string]interface{}{
			"label":       prediction.Label,
			"probability": prediction.Probability,
			"model":       prediction.Model,
			"raw_points":  raw,
			"formula":     fmt.Sprintf("round(%d * (2p - 1)), clamped to keep the label", e.cfg.Tiebreaker.MaxPoints),
		},
	}, true
}

func tiebreakerLean(prediction *model.Prediction, maxPoints int) int {
	if prediction == nil {
		return 0
	}
	return tiebreakerPoints(prediction, maxPoints)
}

// tiebreakerPoints is positive for a REAL lean and negative for a FAKE lean
func tiebreakerPoints(prediction *model.Prediction, maxPoints int) int {
	p := prediction.Probability
	if p < 0.5 {
		p = 0.5
	}
	if p > 1 {
		p = 1
	}
	points := int(math.Round(float64(maxPoints) * (2*p - 1)))
	if prediction.Label == model.LabelFake {
		return -points
	}
	return points
}

func (e *Engine) countTrusted(items []model.EvidenceItem) int {
	n := 0
	for _, item := range items {
		if e.classifyItem(item).IsTrusted {
			n++
		}
	}
	return n
}

func (e *Engine) label(score int) model.Label {
	s := e.cfg.Score
	switch {
	case score >= s.RealCutoff:
		return model.LabelReal
	case score >= s.UncertainCutoff:
		return model.LabelUncertain
	default:
		return model.LabelFake
	}
}

func verdictText(label model.Label) string {
	switch label {
	case model.LabelReal:
		return VerdictVerified
	case model.LabelFake:
		return VerdictDisputed
	case model.LabelNoEvidence:
		return VerdictNoEvidence
	default:
		return VerdictUncertain
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
