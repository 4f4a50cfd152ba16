package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestUIRouting(t *testing.T) {
	u, out, errOut := testUI()

	u.Info("hello %s", "world")
	u.Success("done")
	assert.Contains(t, out.String(), "hello world")
	assert.Contains(t, out.String(), "done")

	u.Warning("careful")
	u.Error("broken")
	assert.Contains(t, errOut.String(), "careful")
	assert.Contains(t, errOut.String(), "broken")
}

func TestVerboseLog(t *testing.T) {
	u, out, _ := testUI()

	u.VerboseLog("hidden")
	assert.Empty(t, out.String())

	u.Verbose = true
	u.VerboseLog("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestDryRunMsg(t *testing.T) {
	u, _, errOut := testUI()

	u.DryRunMsg("skipped")
	assert.Empty(t, errOut.String())

	u.DryRun = true
	u.DryRunMsg("skipped")
	assert.Contains(t, errOut.String(), "[DRY-RUN] skipped")
}

func TestOutcomeColor(t *testing.T) {
	assert.Contains(t, OutcomeColor("converged"), "converged")
	assert.Contains(t, OutcomeColor("escalated"), "escalated")
	assert.Contains(t, OutcomeColor("noop"), "noop")
	assert.Equal(t, "other", OutcomeColor("other"))
}

func TestSeverityColor(t *testing.T) {
	assert.Contains(t, SeverityColor("high"), "high")
	assert.Contains(t, SeverityColor("medium"), "medium")
	assert.Equal(t, "", SeverityColor(""))
}
