package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bob-stewart/HardShell/internal/converge"
	"github.com/bob-stewart/HardShell/internal/models"
)

func fixedID() string { return "P-1" }

func TestSynthesize_Converged(t *testing.T) {
	p := Synthesize(fixedID, "C-1", "rotate tokens", []string{"EV-1"}, converge.Outcome{Converged: true})

	assert.Equal(t, "P-1", p.ID)
	assert.Equal(t, "C-1", p.CaseID)
	assert.Equal(t, models.ProposalGreen, p.Risk)
	assert.Equal(t, models.NoActionRequired, p.NextAction)
	assert.Equal(t, []string{"EV-1"}, p.EvidenceRefs)
	assert.Equal(t, Guardrails, p.Guardrails)
}

func TestSynthesize_NotConverged(t *testing.T) {
	out := converge.Outcome{
		Converged:           false,
		DissentingReviewers: []string{"r3"},
		CommonDisagreements: []string{"no rollback plan", "secrets in repo"},
		AggregateGates:      []string{"chair approval", "security sign-off"},
		Plurality:           models.RecommendApprove,
	}

	p := Synthesize(fixedID, "C-1", "rotate tokens", []string{"EV-1"}, out)

	assert.Equal(t, models.ProposalYellow, p.Risk)
	assert.Equal(t, models.QueueForReview, p.NextAction)

	// Body and title carry the real top-ranked disagreement, not
	// generic filler.
	assert.Contains(t, p.Title, "no rollback plan")
	assert.Contains(t, p.Body, "no rollback plan")
	assert.Contains(t, p.Body, "secrets in repo")
	assert.Contains(t, p.Body, "chair approval")
	assert.Contains(t, p.Body, "security sign-off")
}

func TestSynthesize_NotConvergedWithoutSharedConcerns(t *testing.T) {
	out := converge.Outcome{
		Converged:           false,
		DissentingReviewers: []string{"r2", "r3"},
		Plurality:           models.RecommendApprove,
	}

	p := Synthesize(fixedID, "C-1", "rotate tokens", nil, out)

	assert.Equal(t, models.ProposalYellow, p.Risk)
	assert.Contains(t, p.Body, "r2")
	assert.Contains(t, p.Body, "r3")
}

func TestGuardrailsAlwaysAttached(t *testing.T) {
	converged := Synthesize(fixedID, "C-1", "s", nil, converge.Outcome{Converged: true})
	split := Synthesize(fixedID, "C-1", "s", nil, converge.Outcome{})

	assert.Equal(t, Guardrails, converged.Guardrails)
	assert.Equal(t, Guardrails, split.Guardrails)
	assert.Contains(t, Guardrails, "no destructive operations")
}
