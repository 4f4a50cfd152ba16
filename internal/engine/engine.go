// Package engine runs the change-gating pipeline: classify the change,
// enforce the evidence gate, fan out reviewer calls, evaluate
// convergence, and persist the audit trail.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bob-stewart/HardShell/internal/artifact"
	"github.com/bob-stewart/HardShell/internal/classify"
	"github.com/bob-stewart/HardShell/internal/converge"
	"github.com/bob-stewart/HardShell/internal/models"
	"github.com/bob-stewart/HardShell/internal/oracle"
	"github.com/bob-stewart/HardShell/internal/proposal"
	"github.com/bob-stewart/HardShell/internal/store"
	"github.com/bob-stewart/HardShell/internal/verdict"
)

// ErrConfig marks configuration failures that abort a run before any
// reviewer call; no artifacts are written for them.
var ErrConfig = errors.New("configuration error")

// Params are the caller-supplied inputs for one run.
type Params struct {
	Summary        string
	EvidenceID     string
	ForceWarmup    bool
	ForcedSurfaces []string
	ChangedFiles   []string
}

// Config is the process-wide engine configuration, loaded once at
// startup.
type Config struct {
	Reviewers     []string
	RequiredCount int
}

// Outcome distinguishes the three results automation gates on.
type Outcome string

const (
	OutcomeNoop      Outcome = "noop"
	OutcomeConverged Outcome = "converged"
	OutcomeEscalated Outcome = "escalated"
)

// Result is the structured summary returned (and printed as JSON) for
// every run.
type Result struct {
	Outcome   Outcome         `json:"outcome"`
	Converged bool            `json:"converged"`
	Surfaces  []string        `json:"surfaces"`
	CaseID    string          `json:"case_id,omitempty"`
	ReportID  string          `json:"report_id,omitempty"`
	FindingID string          `json:"finding_id,omitempty"`
	Severity  models.Severity `json:"severity,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// Engine wires the pipeline's capabilities together. The oracle may be
// nil when no credential is configured; runs that need reviewer calls
// then fail with ErrConfig while no-op and fail-closed runs still work.
type Engine struct {
	oracle  oracle.Oracle
	emitter *artifact.Emitter
	ledger  store.Store
	cfg     Config

	newID func() string
	now   func() time.Time
}

// New creates an engine. ledger may be nil to skip run indexing.
func New(o oracle.Oracle, em *artifact.Emitter, ledger store.Store, cfg Config) *Engine {
	return &Engine{
		oracle:  o,
		emitter: em,
		ledger:  ledger,
		cfg:     cfg,
		newID:   NewID,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run executes one single-pass gating run.
func (e *Engine) Run(ctx context.Context, p Params) (*Result, error) {
	surfaces := classify.Paths(p.ChangedFiles)
	for _, s := range p.ForcedSurfaces {
		surfaces.Add(models.Surface(s))
	}
	gateable := surfaces.Gateable()

	// Evidence gate: fail closed before any reviewer call.
	if gateable && p.EvidenceID == "" {
		return e.failClosed(p, surfaces)
	}

	if !gateable && !p.ForceWarmup {
		return &Result{Outcome: OutcomeNoop, Surfaces: surfaces.Sorted()}, nil
	}

	if e.oracle == nil {
		return nil, fmt.Errorf("%w: no oracle credential configured", ErrConfig)
	}
	if len(e.cfg.Reviewers) == 0 {
		return nil, fmt.Errorf("%w: no reviewers configured", ErrConfig)
	}

	mode := converge.ModeGateable
	if p.ForceWarmup {
		mode = converge.ModeWarmup
	}

	var evidenceRefs []string
	if p.EvidenceID != "" {
		evidenceRefs = []string{p.EvidenceID}
	}

	req := oracle.Request{
		Summary:      p.Summary,
		Surfaces:     surfaces,
		EvidenceRefs: evidenceRefs,
		Mode:         mode,
	}
	system, user := oracle.BuildPrompt(req)

	roster := oracle.FilterRoster(ctx, e.oracle, e.cfg.Reviewers)
	results := e.fanOut(ctx, roster, system, user)

	caseID := e.newID()

	// Receipts exist before evaluation so even a later failure leaves
	// an audit trail of what was asked.
	receipts := make([]models.Receipt, len(results))
	for i, r := range results {
		receipts[i] = models.Receipt{
			ID:          e.newID(),
			CaseID:      caseID,
			ReviewerID:  r.ReviewerID,
			CreatedAt:   e.now(),
			Status:      r.Status,
			Latency:     r.Latency,
			TokensIn:    r.TokensIn,
			TokensOut:   r.TokensOut,
			ErrorDetail: r.ErrorDetail,
		}
	}
	warnings := e.emitter.EmitReceipts(receipts)

	opinions := make([]models.Opinion, len(results))
	for i, r := range results {
		if r.Status != models.CallOK {
			opinions[i] = models.Opinion{ReviewerID: r.ReviewerID, Errored: true}
			continue
		}
		opinions[i] = models.Opinion{ReviewerID: r.ReviewerID, Verdict: verdict.Parse(r.Text)}
	}

	outcome := converge.Evaluate(mode, opinions, e.cfg.RequiredCount)

	c := models.Case{
		ID:           caseID,
		CreatedAt:    e.now(),
		Summary:      p.Summary,
		Surfaces:     surfaces.Sorted(),
		EvidenceRefs: evidenceRefs,
	}
	finding := models.Finding{
		ID:        e.newID(),
		CaseID:    caseID,
		CreatedAt: e.now(),
		Converged: outcome.Converged,
	}
	if outcome.Converged {
		c.Severity = models.SeverityMedium
		c.Status = models.CaseStatusInReview
		finding.Recommendation = models.FindingProceed
	} else {
		c.Severity = models.SeverityHigh
		c.Status = models.CaseStatusEscalated
		finding.Recommendation = models.FindingEscalateToChair
	}

	method := models.MethodAdversarial
	if mode == converge.ModeWarmup {
		method = models.MethodWarmup
	}
	synthesis := models.SynthesisConverged
	if !outcome.Converged {
		synthesis = models.SynthesisNotConverged
	}
	report := models.CrosscheckReport{
		ID:                  e.newID(),
		CaseID:              caseID,
		CreatedAt:           e.now(),
		Method:              method,
		Opinions:            opinions,
		Synthesis:           synthesis,
		Dissent:             converge.DissentSummary(outcome),
		CommonDisagreements: outcome.CommonDisagreements,
		AggregateGates:      outcome.AggregateGates,
	}

	backlog := proposal.Synthesize(e.newID, caseID, p.Summary, evidenceRefs, outcome)

	emitWarnings, err := e.emitter.EmitDecision(c, report, finding, &backlog)
	if err != nil {
		return nil, fmt.Errorf("persist decision records: %w", err)
	}
	warnings = append(warnings, emitWarnings...)
	warnings = append(warnings, e.emitter.Commit(fmt.Sprintf("crosscheck %s: %s", caseID, c.Status))...)

	res := &Result{
		Converged: outcome.Converged,
		Surfaces:  surfaces.Sorted(),
		CaseID:    caseID,
		ReportID:  report.ID,
		FindingID: finding.ID,
		Severity:  c.Severity,
		Warnings:  warnings,
	}
	if outcome.Converged {
		res.Outcome = OutcomeConverged
	} else {
		res.Outcome = OutcomeEscalated
	}

	e.recordRun(ctx, res, p.Summary)
	return res, nil
}

// failClosed writes the escalated case for a gateable change with no
// evidence. No reviewer calls are made and no receipts exist.
func (e *Engine) failClosed(p Params, surfaces models.SurfaceSet) (*Result, error) {
	c := models.Case{
		ID:        e.newID(),
		CreatedAt: e.now(),
		Summary:   p.Summary + " (missing evidence id)",
		Severity:  models.SeverityHigh,
		Status:    models.CaseStatusEscalated,
		Surfaces:  surfaces.Sorted(),
	}
	if err := e.emitter.EmitCase(c); err != nil {
		return nil, fmt.Errorf("persist fail-closed case: %w", err)
	}

	res := &Result{
		Outcome:  OutcomeEscalated,
		Surfaces: surfaces.Sorted(),
		CaseID:   c.ID,
		Severity: c.Severity,
		Warnings: e.emitter.Commit(fmt.Sprintf("crosscheck %s: escalated (missing evidence)", c.ID)),
	}
	e.recordRun(context.Background(), res, c.Summary)
	return res, nil
}

// fanOut issues one independent call per reviewer. Calls run
// concurrently, each under its own timeout inside the oracle; the
// engine joins all of them before evaluating, since advisory dissent
// still feeds aggregation.
func (e *Engine) fanOut(ctx context.Context, roster []string, system, user string) []oracle.Result {
	results := make([]oracle.Result, len(roster))
	var wg sync.WaitGroup
	for i, reviewer := range roster {
		wg.Add(1)
		go func(i int, reviewer string) {
			defer wg.Done()
			results[i] = e.oracle.Call(ctx, reviewer, system, user)
		}(i, reviewer)
	}
	wg.Wait()
	return results
}

// recordRun indexes the run in the local ledger, best-effort.
func (e *Engine) recordRun(ctx context.Context, res *Result, summary string) {
	if e.ledger == nil {
		return
	}
	rec := &store.RunRecord{
		CaseID:    res.CaseID,
		Summary:   summary,
		Outcome:   string(res.Outcome),
		Severity:  string(res.Severity),
		Converged: res.Converged,
		Surfaces:  res.Surfaces,
	}
	if err := e.ledger.RecordRun(ctx, rec); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("record run in ledger: %v", err))
	}
}

// NewID generates a ULID for a new record.
func NewID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}
