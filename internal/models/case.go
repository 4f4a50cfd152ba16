package models

import "time"

// Severity classifies how serious a gating case is.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// CaseStatus is the terminal disposition of a case.
type CaseStatus string

const (
	CaseStatusInReview  CaseStatus = "in_review"
	CaseStatusEscalated CaseStatus = "escalated"
)

// Case is the root audit record for one gating run. It is written
// exactly once; a new run produces a new Case.
type Case struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	Summary      string     `json:"summary"`
	Severity     Severity   `json:"severity"`
	Status       CaseStatus `json:"status"`
	Surfaces     []string   `json:"surfaces"`
	EvidenceRefs []string   `json:"evidence_refs"`
}
