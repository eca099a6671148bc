package model

// Claim is the statement being checked
type Claim struct {
	Text string `json:"text"`          // Normalized claim text
	Raw  string `json:"raw,omitempty"` // Input as received
}

// Label is the verdict classification of a claim
type Label string

const (
	LabelReal       Label = "REAL"
	LabelUncertain  Label = "UNCERTAIN"
	LabelFake       Label = "FAKE"
	LabelNoEvidence Label = "NO_EVIDENCE" // Nothing found anywhere; never a disproof
)

// Tier identifies which decision tier produced a verdict
type Tier string

const (
	TierFactCheck  Tier = "fact_check_override"
	TierWeighted   Tier = "weighted_signals"
	TierNoEvidence Tier = "zero_evidence"
)

// Prediction is the output of the optional statistical classifier
type Prediction struct {
	Label       Label   `json:"label"`       // REAL or FAKE
	Probability float64 `json:"probability"` // Probability of Label (0.5-1.0)
	Model       string  `json:"model,omitempty"`
}
