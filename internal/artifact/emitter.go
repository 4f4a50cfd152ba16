package artifact

import (
	"fmt"
	"strings"

	"github.com/bob-stewart/HardShell/internal/models"
)

// Emitter assembles and persists a run's records in audit order:
// receipts first so partial failures still leave a trail of what was
// asked, then case, report, finding, then backlog.
type Emitter struct {
	store Store
}

// NewEmitter creates an emitter writing through the given store.
func NewEmitter(s Store) *Emitter {
	return &Emitter{store: s}
}

// EmitReceipts persists every oracle-call receipt. Receipt write
// failures never fail the run; they come back as warnings.
func (e *Emitter) EmitReceipts(receipts []models.Receipt) []string {
	var warnings []string
	for _, r := range receipts {
		path := fmt.Sprintf("receipts/%s.json", r.ID)
		if err := e.store.Write(path, r); err != nil {
			warnings = append(warnings, fmt.Sprintf("persist receipt %s: %v", r.ID, err))
		}
	}
	return warnings
}

// EmitCase persists a case alone, used by the fail-closed evidence
// path which produces no report or finding.
func (e *Emitter) EmitCase(c models.Case) error {
	return e.store.Write(fmt.Sprintf("cases/%s.json", c.ID), c)
}

// EmitDecision persists the primary records of a completed evaluation.
// Case, report, and finding failures fail the run; the backlog record
// is secondary and degrades to a warning.
func (e *Emitter) EmitDecision(c models.Case, report models.CrosscheckReport, finding models.Finding, backlog *models.ImprovementProposal) ([]string, error) {
	if err := e.EmitCase(c); err != nil {
		return nil, err
	}
	if err := e.store.Write(fmt.Sprintf("reports/%s.json", report.ID), report); err != nil {
		return nil, err
	}
	if err := e.store.Write(fmt.Sprintf("findings/%s.json", finding.ID), finding); err != nil {
		return nil, err
	}

	var warnings []string
	if backlog != nil {
		if err := e.store.Write(fmt.Sprintf("backlog/%s.json", backlog.ID), backlog); err != nil {
			warnings = append(warnings, fmt.Sprintf("persist backlog %s: %v", backlog.ID, err))
		}
		if err := e.store.WriteText(fmt.Sprintf("backlog/%s.md", backlog.ID), RenderBacklog(*backlog)); err != nil {
			warnings = append(warnings, fmt.Sprintf("render backlog %s: %v", backlog.ID, err))
		}
	}
	return warnings, nil
}

// Commit commits the artifact trail, best-effort.
func (e *Emitter) Commit(message string) []string {
	if err := e.store.Commit(message); err != nil {
		return []string{fmt.Sprintf("commit artifacts: %v", err)}
	}
	return nil
}

// RenderBacklog renders the human-readable companion to the backlog
// JSON record.
func RenderBacklog(p models.ImprovementProposal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	fmt.Fprintf(&b, "- ID: %s\n", p.ID)
	fmt.Fprintf(&b, "- Case: %s\n", p.CaseID)
	fmt.Fprintf(&b, "- Risk: %s\n", p.Risk)
	fmt.Fprintf(&b, "- Next action: %s\n", p.NextAction)
	if len(p.EvidenceRefs) > 0 {
		fmt.Fprintf(&b, "- Evidence: %s\n", strings.Join(p.EvidenceRefs, ", "))
	}

	b.WriteString("\n")
	b.WriteString(p.Body)
	if !strings.HasSuffix(p.Body, "\n") {
		b.WriteString("\n")
	}

	b.WriteString("\n## Guardrails\n\n")
	for _, g := range p.Guardrails {
		fmt.Fprintf(&b, "- %s\n", g)
	}
	return b.String()
}
