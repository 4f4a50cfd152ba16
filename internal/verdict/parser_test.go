package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bob-stewart/HardShell/internal/models"
)

func TestParse_WellFormed(t *testing.T) {
	raw := `RISK: HIGH
RECOMMENDATION: REQUEST_CHANGES
CONCERNS:
- secrets file is world-readable
- no rollback plan documented
REQUIRED_GATES:
- security sign-off
`
	v := Parse(raw)

	assert.Equal(t, models.RiskHigh, v.Risk)
	assert.Equal(t, models.RecommendRequestChanges, v.Recommendation)
	assert.Equal(t, []string{"secrets file is world-readable", "no rollback plan documented"}, v.Concerns)
	assert.Equal(t, []string{"security sign-off"}, v.RequiredGates)
}

func TestParse_NonCompliantFormatting(t *testing.T) {
	t.Run("lowercase and prose", func(t *testing.T) {
		v := Parse("After review, risk= low overall. My recommendation - approve, looks solid.")
		assert.Equal(t, models.RiskLow, v.Risk)
		assert.Equal(t, models.RecommendApprove, v.Recommendation)
	})

	t.Run("request changes with space", func(t *testing.T) {
		v := Parse("RECOMMENDATION: REQUEST CHANGES because of the token handling")
		assert.Equal(t, models.RecommendRequestChanges, v.Recommendation)
	})

	t.Run("numbered and starred bullets", func(t *testing.T) {
		v := Parse("CONCERNS:\n1. missing audit log\n* unclear ownership\n")
		assert.Equal(t, []string{"missing audit log", "unclear ownership"}, v.Concerns)
	})

	t.Run("inline section content", func(t *testing.T) {
		v := Parse("CONCERNS: credentials checked into repo\n")
		assert.Equal(t, []string{"credentials checked into repo"}, v.Concerns)
	})
}

func TestParse_Defaults(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		v := Parse("")
		assert.Equal(t, models.RiskMedium, v.Risk)
		assert.Equal(t, models.RecommendRequestChanges, v.Recommendation)
		assert.Empty(t, v.Concerns)
		assert.Empty(t, v.RequiredGates)
	})

	t.Run("unrecognizable prose", func(t *testing.T) {
		v := Parse("I am not sure what to make of this change at all.")
		assert.Equal(t, models.RiskMedium, v.Risk)
		assert.Equal(t, models.RecommendRequestChanges, v.Recommendation)
	})

	t.Run("unknown risk token ignored", func(t *testing.T) {
		v := Parse("RISK: ENORMOUS\nRECOMMENDATION: APPROVE")
		assert.Equal(t, models.RiskMedium, v.Risk)
		assert.Equal(t, models.RecommendApprove, v.Recommendation)
	})
}

func TestParse_SectionFiltering(t *testing.T) {
	raw := `CONCERNS:
- ok
- none
- n/a
- the deploy script disables the firewall
RECOMMENDATION: REJECT
`
	v := Parse(raw)

	assert.Equal(t, []string{"the deploy script disables the firewall"}, v.Concerns)
	assert.Equal(t, models.RecommendReject, v.Recommendation)
	assert.Empty(t, v.RequiredGates)
}

func TestParse_SectionStopsAtNextHeader(t *testing.T) {
	raw := `CONCERNS:
- overly broad permissions
REQUIRED_GATES:
- chair approval
- change freeze exemption
`
	v := Parse(raw)

	assert.Equal(t, []string{"overly broad permissions"}, v.Concerns)
	assert.Equal(t, []string{"chair approval", "change freeze exemption"}, v.RequiredGates)
}

func TestParse_Idempotent(t *testing.T) {
	raw := "RISK: CRITICAL\nRECOMMENDATION: REJECT\nCONCERNS:\n- everything\nwait no\n"
	assert.Equal(t, Parse(raw), Parse(raw))
}
