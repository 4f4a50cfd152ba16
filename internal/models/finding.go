package models

import "time"

// FindingRecommendation is the action the engine recommends to callers.
type FindingRecommendation string

const (
	FindingProceed         FindingRecommendation = "proceed"
	FindingEscalateToChair FindingRecommendation = "escalate_to_chair"
)

// Finding is the engine's conclusion for one run. It references its
// Case by id; it does not own it.
type Finding struct {
	ID             string                `json:"id"`
	CaseID         string                `json:"case_id"`
	CreatedAt      time.Time             `json:"created_at"`
	Converged      bool                  `json:"converged"`
	Recommendation FindingRecommendation `json:"recommendation"`
}
