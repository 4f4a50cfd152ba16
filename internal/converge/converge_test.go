package converge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bob-stewart/HardShell/internal/models"
)

func opinion(id string, rec models.Recommendation, concerns ...string) models.Opinion {
	return models.Opinion{
		ReviewerID: id,
		Verdict: models.Verdict{
			Risk:           models.RiskMedium,
			Recommendation: rec,
			Concerns:       concerns,
		},
	}
}

func errored(id string) models.Opinion {
	return models.Opinion{ReviewerID: id, Errored: true}
}

func TestEvaluate_Warmup(t *testing.T) {
	t.Run("two thirds supermajority converges", func(t *testing.T) {
		out := Evaluate(ModeWarmup, []models.Opinion{
			opinion("r1", models.RecommendApprove),
			opinion("r2", models.RecommendApprove),
			opinion("r3", models.RecommendRequestChanges),
		}, 3)

		assert.True(t, out.Converged)
		assert.Empty(t, out.DissentingReviewers)
	})

	t.Run("three way split does not converge", func(t *testing.T) {
		out := Evaluate(ModeWarmup, []models.Opinion{
			opinion("r1", models.RecommendApprove),
			opinion("r2", models.RecommendRequestChanges),
			opinion("r3", models.RecommendReject),
		}, 3)

		assert.False(t, out.Converged)
		assert.Equal(t, []string{"r2", "r3"}, out.DissentingReviewers)
		assert.Equal(t, models.RecommendApprove, out.Plurality)
	})
}

func TestEvaluate_Gateable(t *testing.T) {
	t.Run("unanimity converges", func(t *testing.T) {
		out := Evaluate(ModeGateable, []models.Opinion{
			opinion("r1", models.RecommendApprove),
			opinion("r2", models.RecommendApprove),
			opinion("r3", models.RecommendApprove),
		}, 3)

		assert.True(t, out.Converged)
	})

	t.Run("single dissent blocks", func(t *testing.T) {
		out := Evaluate(ModeGateable, []models.Opinion{
			opinion("r1", models.RecommendApprove),
			opinion("r2", models.RecommendApprove),
			opinion("r3", models.RecommendRequestChanges),
		}, 3)

		assert.False(t, out.Converged)
		assert.Equal(t, []string{"r3"}, out.DissentingReviewers)
	})
}

func TestEvaluate_ErroredRequiredReviewer(t *testing.T) {
	for _, mode := range []Mode{ModeWarmup, ModeGateable} {
		out := Evaluate(mode, []models.Opinion{
			opinion("r1", models.RecommendApprove),
			opinion("r2", models.RecommendApprove),
			errored("r3"),
		}, 3)

		assert.False(t, out.Converged, "mode %s", mode)
		assert.Contains(t, out.DissentingReviewers, "r3")
	}
}

func TestEvaluate_AdvisoryReviewers(t *testing.T) {
	// Advisory dissent does not block, but its concerns still aggregate.
	out := Evaluate(ModeGateable, []models.Opinion{
		opinion("r1", models.RecommendApprove, "token lifetime too long"),
		opinion("r2", models.RecommendApprove),
		opinion("r3", models.RecommendApprove),
		opinion("advisory", models.RecommendReject, "token lifetime too long"),
	}, 3)

	assert.True(t, out.Converged)
	assert.Equal(t, []string{"token lifetime too long"}, out.CommonDisagreements)
}

func TestCommonDisagreements(t *testing.T) {
	t.Run("frequency ranked, shared only", func(t *testing.T) {
		out := Evaluate(ModeWarmup, []models.Opinion{
			opinion("r1", models.RecommendReject, "No rollback plan", "secrets in repo"),
			opinion("r2", models.RecommendApprove, "no rollback plan", "latency budget unclear"),
			opinion("r3", models.RecommendReject, "NO ROLLBACK PLAN", "secrets in repo"),
		}, 3)

		assert.Equal(t, []string{"No rollback plan", "secrets in repo"}, out.CommonDisagreements)
	})

	t.Run("duplicate within one verdict counts once", func(t *testing.T) {
		out := Evaluate(ModeWarmup, []models.Opinion{
			opinion("r1", models.RecommendReject, "flaky tests", "flaky tests"),
			opinion("r2", models.RecommendApprove),
			opinion("r3", models.RecommendApprove),
		}, 3)

		assert.Empty(t, out.CommonDisagreements)
	})
}

func TestAggregateGates(t *testing.T) {
	ops := []models.Opinion{
		opinion("r1", models.RecommendApprove),
		opinion("r2", models.RecommendApprove),
		opinion("r3", models.RecommendApprove),
	}
	ops[0].Verdict.RequiredGates = []string{"Security sign-off", "chair approval"}
	ops[2].Verdict.RequiredGates = []string{"security sign-off"}

	out := Evaluate(ModeGateable, ops, 3)

	assert.Equal(t, []string{"chair approval", "security sign-off"}, out.AggregateGates)
}

func TestEvaluate_RequiredCountDefaults(t *testing.T) {
	ops := []models.Opinion{
		opinion("r1", models.RecommendApprove),
		opinion("r2", models.RecommendApprove),
	}

	// Roster smaller than the required count: everyone is required.
	out := Evaluate(ModeGateable, ops, 0)
	assert.True(t, out.Converged)
}

func TestDissentSummary(t *testing.T) {
	out := Evaluate(ModeGateable, []models.Opinion{
		opinion("r1", models.RecommendApprove),
		opinion("r2", models.RecommendApprove),
		opinion("r3", models.RecommendReject),
	}, 3)

	s := DissentSummary(out)
	assert.Contains(t, s, "r3")
	assert.Contains(t, s, string(models.RecommendApprove))

	assert.Empty(t, DissentSummary(Outcome{Converged: true}))
}
