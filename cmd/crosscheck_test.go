package cmd

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bob-stewart/HardShell/internal/engine"
)

func TestCrosscheckDryRun_NotGateable(t *testing.T) {
	testEnv(t)
	ui.Out = io.Discard
	ui.ErrOut = io.Discard

	err := crosscheckDryRun(engine.Params{
		Summary:      "update readme",
		ChangedFiles: []string{"README.md", "docs/usage.md"},
	})
	assert.NoError(t, err)
}

func TestCrosscheckDryRun_GateableWithoutEvidence(t *testing.T) {
	testEnv(t)
	ui.Out = io.Discard
	ui.ErrOut = io.Discard

	err := crosscheckDryRun(engine.Params{
		Summary:      "rotate signing key",
		ChangedFiles: []string{"internal/auth/token.go"},
	})
	assert.NoError(t, err)
}

func TestCrosscheckDryRun_ForcedSurface(t *testing.T) {
	testEnv(t)
	ui.Out = io.Discard
	ui.ErrOut = io.Discard

	err := crosscheckDryRun(engine.Params{
		Summary:        "manual override",
		ForcedSurfaces: []string{"privilege"},
		EvidenceID:     "EV-1",
	})
	assert.NoError(t, err)
}

func TestClassifyRun_ExplicitPaths(t *testing.T) {
	testEnv(t)
	ui.Out = io.Discard
	ui.ErrOut = io.Discard

	err := classifyRun([]string{"README.md", "deploy/k8s/service.yaml"})
	assert.NoError(t, err)
}

func TestReviewerRoster(t *testing.T) {
	testEnv(t)

	roster := reviewerRoster()
	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, roster)
}
