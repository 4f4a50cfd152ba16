// Package proposal turns convergence outcomes into backlog records.
package proposal

import (
	"fmt"
	"strings"
	"time"

	"github.com/bob-stewart/HardShell/internal/converge"
	"github.com/bob-stewart/HardShell/internal/models"
)

// Guardrails are attached verbatim to every proposal, converged or not:
// a proposal can describe follow-up work but can never self-authorize
// risky action.
var Guardrails = []string{
	"no privilege or permission changes",
	"no network-exposure changes",
	"no destructive operations",
	"no escalation-routing changes",
}

// Synthesize builds the run's improvement proposal. Converged runs get
// a green no-action record; non-converged runs get a yellow record
// whose body is built from the actual top-ranked disagreement and the
// aggregated gates, never from placeholder text.
func Synthesize(newID func() string, caseID, summary string, evidenceRefs []string, out converge.Outcome) models.ImprovementProposal {
	p := models.ImprovementProposal{
		ID:           newID(),
		CaseID:       caseID,
		CreatedAt:    time.Now().UTC(),
		EvidenceRefs: evidenceRefs,
		Guardrails:   Guardrails,
	}

	if out.Converged {
		p.Title = fmt.Sprintf("Reviewers converged: %s", summary)
		p.Body = "All required reviewers agreed; no follow-up work identified."
		p.Risk = models.ProposalGreen
		p.NextAction = models.NoActionRequired
		return p
	}

	p.Risk = models.ProposalYellow
	p.NextAction = models.QueueForReview

	var b strings.Builder
	if len(out.CommonDisagreements) > 0 {
		p.Title = fmt.Sprintf("Resolve reviewer disagreement: %s", out.CommonDisagreements[0])
		b.WriteString("Reviewers did not converge. Shared disagreements, most frequent first:\n")
		for _, d := range out.CommonDisagreements {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	} else {
		p.Title = fmt.Sprintf("Resolve reviewer split: %s", summary)
		fmt.Fprintf(&b, "Reviewers did not converge and shared no common concern. %s.\n",
			converge.DissentSummary(out))
	}

	if len(out.AggregateGates) > 0 {
		b.WriteString("\nGates required by reviewers before this change proceeds:\n")
		for _, g := range out.AggregateGates {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}

	p.Body = b.String()
	return p
}
