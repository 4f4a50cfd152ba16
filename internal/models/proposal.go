package models

import "time"

// ProposalRisk color-codes an improvement proposal.
type ProposalRisk string

const (
	ProposalGreen  ProposalRisk = "green"
	ProposalYellow ProposalRisk = "yellow"
)

// NextAction tells callers what to do with a proposal.
type NextAction string

const (
	NoActionRequired NextAction = "no_action_required"
	QueueForReview   NextAction = "queue_for_review"
)

// ImprovementProposal is a backlog entry synthesized from real
// disagreement signal (or a clean-agreement record when reviewers
// converged). Zero or one per run.
type ImprovementProposal struct {
	ID           string       `json:"id"`
	CaseID       string       `json:"case_id"`
	CreatedAt    time.Time    `json:"created_at"`
	Title        string       `json:"title"`
	Body         string       `json:"body"`
	Risk         ProposalRisk `json:"risk"`
	EvidenceRefs []string     `json:"evidence_refs"`
	NextAction   NextAction   `json:"next_action"`
	Guardrails   []string     `json:"guardrails"`
}
