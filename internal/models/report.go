package models

import "time"

// ReviewMethod selects the quorum policy applied to a run.
type ReviewMethod string

const (
	MethodWarmup      ReviewMethod = "warmup"
	MethodAdversarial ReviewMethod = "adversarial"
)

// Synthesis is the aggregate reading of all reviewer opinions.
type Synthesis string

const (
	SynthesisConverged    Synthesis = "converged"
	SynthesisNotConverged Synthesis = "not_converged"
)

// CrosscheckReport records every reviewer opinion from one run plus the
// convergence synthesis. One report per run, write-once.
type CrosscheckReport struct {
	ID                  string       `json:"id"`
	CaseID              string       `json:"case_id"`
	CreatedAt           time.Time    `json:"created_at"`
	Method              ReviewMethod `json:"method"`
	Opinions            []Opinion    `json:"opinions"`
	Synthesis           Synthesis    `json:"synthesis"`
	Dissent             string       `json:"dissent,omitempty"`
	CommonDisagreements []string     `json:"common_disagreements,omitempty"`
	AggregateGates      []string     `json:"aggregate_gates,omitempty"`
}
