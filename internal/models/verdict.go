package models

// Risk is a reviewer's risk rating for a change.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// Recommendation is a reviewer's disposition for a change.
type Recommendation string

const (
	RecommendApprove        Recommendation = "approve"
	RecommendRequestChanges Recommendation = "request_changes"
	RecommendReject         Recommendation = "reject"
)

// Verdict is the typed reading of one reviewer's freeform response.
// Unparseable fields default to medium/request_changes; a Verdict is
// never mutated after creation.
type Verdict struct {
	Risk           Risk           `json:"risk"`
	Recommendation Recommendation `json:"recommendation"`
	Concerns       []string       `json:"concerns"`
	RequiredGates  []string       `json:"required_gates"`
}

// Opinion pairs a Verdict with the reviewer that produced it, in the
// order reviewers were configured.
type Opinion struct {
	ReviewerID string  `json:"reviewer_id"`
	Verdict    Verdict `json:"verdict"`
	// Errored marks a reviewer whose oracle call failed; its Verdict
	// is zero-valued and excluded from convergence.
	Errored bool `json:"errored,omitempty"`
}
