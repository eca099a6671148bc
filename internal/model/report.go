package model

// VerdictResult is the terminal output of the verdict engine
type VerdictResult struct {
	Label      Label           `json:"label"`
	Tier       Tier            `json:"tier"`
	Score      int             `json:"score"`      // Clamped support score
	Confidence int             `json:"confidence"` // 0-100
	Verdict    string          `json:"verdict"`    // Human-readable verdict phrase
	Signals    SignalBreakdown `json:"signals"`

	FactCheck                  *FactCheckRecord `json:"fact_check,omitempty"` // The record considered, if any
	BestSimilarity             float64          `json:"best_similarity"`
	BestMatch                  string           `json:"best_match,omitempty"`
	AvgCorroborationSimilarity float64          `json:"avg_corroboration_similarity"`
	TrustedDomains             []string         `json:"trusted_domains"`
	FakeDomains                []string         `json:"fake_domains"`
	Counts                     map[string]int   `json:"counts"`   // Raw evidence counts per collector
	Evidence                   []ScoredItem     `json:"evidence"` // Every item with its per-item classification
}

// ScoredItem is an evidence item after domain and similarity classification
type ScoredItem struct {
	Item       EvidenceItem  `json:"item"`
	Verdict    DomainVerdict `json:"domain"`
	Similarity float64       `json:"similarity"`
}

// Signal is one point contribution applied by the engine
type Signal struct {
	Name        SignalName             `json:"name"`
	Points      int                    `json:"points"` // Signed contribution
	Stance      Stance                 `json:"stance"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Inputs and formula
}

// SignalName identifies a scoring signal
type SignalName string

const (
	SignalBaseline             SignalName = "baseline"
	SignalFactCheck            SignalName = "fact_check"
	SignalTrustedDomain        SignalName = "trusted_domain"
	SignalKnownFakeDomain      SignalName = "known_fake_domain"
	SignalSimilarity           SignalName = "similarity"
	SignalCorroborationVolume  SignalName = "corroboration_volume"
	SignalTrustedCorroboration SignalName = "trusted_corroboration"
	SignalTiebreaker           SignalName = "statistical_tiebreaker"
	SignalNoEvidence           SignalName = "no_evidence"
)

// Stance says whether a signal argues for or against the claim
type Stance string

const (
	StanceSupports    Stance = "supports"
	StanceContradicts Stance = "contradicts"
	StanceAmbiguous   Stance = "ambiguous"
)

// StanceOf derives the stance from a signed contribution
func StanceOf(points int) Stance {
	switch {
	case points > 0:
		return StanceSupports
	case points < 0:
		return StanceContradicts
	default:
		return StanceAmbiguous
	}
}

// SignalBreakdown is the ordered list of signals that fired
type SignalBreakdown []Signal

// Total sums every contribution
func (b SignalBreakdown) Total() int {
	total := 0
	for _, s := range b {
		total += s.Points
	}
	return total
}

// Get returns the signal with the given name
func (b SignalBreakdown) Get(name SignalName) (Signal, bool) {
	for _, s := range b {
		if s.Name == name {
			return s, true
		}
	}
	return Signal{}, false
}

// Has reports whether a signal fired
func (b SignalBreakdown) Has(name SignalName) bool {
	_, ok := b.Get(name)
	return ok
}
