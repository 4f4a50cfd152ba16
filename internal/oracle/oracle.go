// Package oracle wraps the external reviewer text-generation
// capability. Each configured reviewer is one independent call; errors,
// timeouts, and budget rejections are folded into the Result rather
// than aborting the run.
package oracle

import (
	"context"
	"time"

	"github.com/bob-stewart/HardShell/internal/converge"
	"github.com/bob-stewart/HardShell/internal/models"
)

// Request is the immutable review request for one run. Every reviewer
// receives the identical request.
type Request struct {
	Summary      string
	Surfaces     models.SurfaceSet
	EvidenceRefs []string
	Mode         converge.Mode
}

// Result is the outcome of one reviewer call.
type Result struct {
	ReviewerID  string
	Status      models.CallStatus
	Text        string
	Latency     time.Duration
	TokensIn    int64
	TokensOut   int64
	ErrorDetail string
}

// Oracle is the reviewer capability: submit a prompt, get text or a
// failure, with latency and token accounting. Implementations apply
// their own per-call timeout.
type Oracle interface {
	Call(ctx context.Context, reviewerID, system, user string) Result
	AvailableModels(ctx context.Context) ([]string, error)
}

// FilterRoster drops reviewers whose model the provider does not
// currently serve. If the availability check itself fails, the full
// configured roster is used unfiltered; degraded filtering must never
// block a run.
func FilterRoster(ctx context.Context, o Oracle, roster []string) []string {
	available, err := o.AvailableModels(ctx)
	if err != nil || len(available) == 0 {
		return roster
	}

	known := make(map[string]bool, len(available))
	for _, m := range available {
		known[m] = true
	}

	var filtered []string
	for _, r := range roster {
		if known[r] {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return roster
	}
	return filtered
}
