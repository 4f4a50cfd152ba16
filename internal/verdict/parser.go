// Package verdict extracts typed verdicts from freeform reviewer text.
//
// Reviewers are asked for a fixed RISK / RECOMMENDATION / CONCERNS /
// REQUIRED_GATES layout but routinely ignore it, so extraction is
// best-effort: unrecognized fields fall back to defaults rather than
// erroring, and missing sections yield empty lists.
package verdict

import (
	"regexp"
	"strings"

	"github.com/bob-stewart/HardShell/internal/models"
)

var (
	riskRe = regexp.MustCompile(`(?i)\bRISK\b\s*[:=\-]?\s*(LOW|MEDIUM|HIGH|CRITICAL)\b`)
	recRe  = regexp.MustCompile(`(?i)\bRECOMMENDATION\b\s*[:=\-]?\s*(APPROVE|REQUEST[_ ]?CHANGES|REJECT)\b`)

	sectionHeaderRe = regexp.MustCompile(`(?i)^\s*(RISK|RECOMMENDATION|CONCERNS|REQUIRED[_ ]?GATES|SUMMARY)\b`)
	numberedRe      = regexp.MustCompile(`^\d+[.)]\s+`)
)

// minItemLen drops trivially short bullet lines ("-", "n/a", "ok").
const minItemLen = 4

// Parse converts one reviewer's raw text into a Verdict. It never
// fails: parsing the same text twice yields identical Verdicts, and
// text with no recognizable structure yields the conservative default
// of medium risk with changes requested.
func Parse(raw string) models.Verdict {
	return models.Verdict{
		Risk:           parseRisk(raw),
		Recommendation: parseRecommendation(raw),
		Concerns:       parseSection(raw, "CONCERNS"),
		RequiredGates:  parseSection(raw, "REQUIRED_GATES", "REQUIRED GATES"),
	}
}

func parseRisk(raw string) models.Risk {
	m := riskRe.FindStringSubmatch(raw)
	if m == nil {
		return models.RiskMedium
	}
	switch strings.ToUpper(m[1]) {
	case "LOW":
		return models.RiskLow
	case "HIGH":
		return models.RiskHigh
	case "CRITICAL":
		return models.RiskCritical
	default:
		return models.RiskMedium
	}
}

func parseRecommendation(raw string) models.Recommendation {
	m := recRe.FindStringSubmatch(raw)
	if m == nil {
		return models.RecommendRequestChanges
	}
	switch strings.ToUpper(strings.ReplaceAll(m[1], " ", "_")) {
	case "APPROVE":
		return models.RecommendApprove
	case "REJECT":
		return models.RecommendReject
	default:
		return models.RecommendRequestChanges
	}
}

// parseSection pulls the bullet items under a named header. The
// section runs until the next recognized header or end of text.
func parseSection(raw string, names ...string) []string {
	lines := strings.Split(raw, "\n")

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, name := range names {
			upper := strings.ToUpper(trimmed)
			if strings.HasPrefix(upper, name) {
				start = i
				break
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return nil
	}

	var items []string

	// The header line itself may carry inline content after a colon.
	if _, after, found := strings.Cut(lines[start], ":"); found {
		if item := cleanItem(after); item != "" {
			items = append(items, item)
		}
	}

	for _, line := range lines[start+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if sectionHeaderRe.MatchString(trimmed) {
			break
		}
		if item := cleanItem(trimmed); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// cleanItem strips bullet markers and rejects noise lines.
func cleanItem(line string) string {
	item := strings.TrimSpace(line)
	item = strings.TrimLeft(item, "-*•> \t")
	item = strings.TrimSpace(item)

	// Numbered bullets: "1. foo", "2) bar".
	if m := numberedRe.FindString(item); m != "" {
		item = item[len(m):]
	}

	if len(item) < minItemLen {
		return ""
	}
	if strings.EqualFold(item, "none") || strings.EqualFold(item, "none.") {
		return ""
	}
	return item
}
