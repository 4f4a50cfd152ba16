package models

import "time"

// CallStatus is the outcome of one oracle call.
type CallStatus string

const (
	CallOK    CallStatus = "ok"
	CallError CallStatus = "error"
)

// Receipt is the immutable audit record of one oracle call, success or
// failure. Receipts are persisted before any downstream evaluation so a
// failed run still leaves a trail of what was asked.
type Receipt struct {
	ID          string        `json:"id"`
	CaseID      string        `json:"case_id"`
	ReviewerID  string        `json:"reviewer_id"`
	CreatedAt   time.Time     `json:"created_at"`
	Status      CallStatus    `json:"status"`
	Latency     time.Duration `json:"latency_ns"`
	TokensIn    int64         `json:"tokens_in"`
	TokensOut   int64         `json:"tokens_out"`
	ErrorDetail string        `json:"error_detail,omitempty"`
}
