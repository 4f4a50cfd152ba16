// Package converge applies quorum policy over reviewer verdicts.
package converge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bob-stewart/HardShell/internal/models"
)

// DefaultRequiredCount is the size of the required reviewer subset when
// configuration does not override it.
const DefaultRequiredCount = 3

// disagreementPrefixLen bounds concern text for grouping, so minor
// wording drift at the tail still counts as the same disagreement.
const disagreementPrefixLen = 48

// Mode selects the quorum policy.
type Mode string

const (
	// ModeWarmup requires a two-thirds supermajority among required
	// reviewers.
	ModeWarmup Mode = "warmup"
	// ModeGateable requires strict unanimity among required reviewers.
	ModeGateable Mode = "gateable"
)

// Outcome is the result of evaluating one run's verdicts.
type Outcome struct {
	Converged           bool
	DissentingReviewers []string
	CommonDisagreements []string
	AggregateGates      []string
	// Plurality is the most frequent recommendation among required
	// reviewers, informational on non-convergence.
	Plurality models.Recommendation
}

// Evaluate computes convergence for the given opinions. The first
// requiredCount opinions form the required subset whose agreement
// decides the run; any remaining opinions are advisory and contribute
// to disagreement aggregation only. Which reviewers land in the
// required subset is a configuration contract: the roster order is
// taken as given and the first N are required.
func Evaluate(mode Mode, opinions []models.Opinion, requiredCount int) Outcome {
	if requiredCount <= 0 {
		requiredCount = DefaultRequiredCount
	}
	if requiredCount > len(opinions) {
		requiredCount = len(opinions)
	}
	required := opinions[:requiredCount]

	out := Outcome{
		CommonDisagreements: commonDisagreements(opinions),
		AggregateGates:      aggregateGates(opinions),
	}

	// A failed required reviewer cannot be outvoted.
	errored := false
	for _, op := range required {
		if op.Errored {
			errored = true
			break
		}
	}

	winner, winnerCount := plurality(required)
	out.Plurality = winner

	if !errored && requiredCount > 0 {
		switch mode {
		case ModeGateable:
			out.Converged = winnerCount == requiredCount
		default:
			// ceil(2n/3) supermajority.
			out.Converged = winnerCount >= (2*requiredCount+2)/3
		}
	}

	if !out.Converged {
		for _, op := range required {
			if op.Errored || op.Verdict.Recommendation != winner {
				out.DissentingReviewers = append(out.DissentingReviewers, op.ReviewerID)
			}
		}
	}
	return out
}

// plurality finds the most frequent recommendation among non-errored
// required reviewers, breaking ties by first appearance.
func plurality(required []models.Opinion) (models.Recommendation, int) {
	counts := make(map[models.Recommendation]int)
	var order []models.Recommendation
	for _, op := range required {
		if op.Errored {
			continue
		}
		rec := op.Verdict.Recommendation
		if counts[rec] == 0 {
			order = append(order, rec)
		}
		counts[rec]++
	}

	var winner models.Recommendation
	best := 0
	for _, rec := range order {
		if counts[rec] > best {
			winner = rec
			best = counts[rec]
		}
	}
	return winner, best
}

// commonDisagreements groups concerns across all verdicts by a
// case-folded, length-bounded key and keeps those appearing in more
// than one verdict, ranked by descending frequency.
func commonDisagreements(opinions []models.Opinion) []string {
	type group struct {
		display string
		count   int
		first   int
	}
	groups := make(map[string]*group)

	idx := 0
	for _, op := range opinions {
		if op.Errored {
			continue
		}
		seen := make(map[string]bool) // one vote per verdict
		for _, concern := range op.Verdict.Concerns {
			key := disagreementKey(concern)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			g, ok := groups[key]
			if !ok {
				g = &group{display: concern, first: idx}
				groups[key] = g
				idx++
			}
			g.count++
		}
	}

	var kept []*group
	for _, g := range groups {
		if g.count > 1 {
			kept = append(kept, g)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].count != kept[j].count {
			return kept[i].count > kept[j].count
		}
		return kept[i].first < kept[j].first
	})

	out := make([]string, len(kept))
	for i, g := range kept {
		out[i] = g.display
	}
	return out
}

func disagreementKey(concern string) string {
	key := strings.ToLower(strings.TrimSpace(concern))
	if len(key) > disagreementPrefixLen {
		key = key[:disagreementPrefixLen]
	}
	return key
}

// aggregateGates returns the deduplicated union of required gates
// across all reviewers, sorted for stable output.
func aggregateGates(opinions []models.Opinion) []string {
	set := make(map[string]bool)
	for _, op := range opinions {
		for _, gate := range op.Verdict.RequiredGates {
			g := strings.TrimSpace(gate)
			if g != "" {
				set[strings.ToLower(g)] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// DissentSummary renders a short human explanation of a non-converged
// outcome for the crosscheck report.
func DissentSummary(out Outcome) string {
	if out.Converged {
		return ""
	}
	if len(out.DissentingReviewers) == 0 {
		return "required reviewers did not reach quorum"
	}
	return fmt.Sprintf("%d required reviewer(s) dissented from %s: %s",
		len(out.DissentingReviewers), out.Plurality,
		strings.Join(out.DissentingReviewers, ", "))
}
