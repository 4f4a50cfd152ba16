package oracle

import (
	"fmt"
	"strings"

	"github.com/bob-stewart/HardShell/internal/converge"
)

// BuildPrompt constructs the system and user prompts for one review
// request. The system prompt pins the response layout the verdict
// parser looks for; reviewers that ignore it still get parsed
// best-effort downstream.
func BuildPrompt(req Request) (system string, user string) {
	system = `You are an independent change reviewer for a gated infrastructure repository. Assess the proposed change and respond in exactly this layout:

RISK: <LOW|MEDIUM|HIGH|CRITICAL>
RECOMMENDATION: <APPROVE|REQUEST_CHANGES|REJECT>
CONCERNS:
- <one concern per line, or "none">
REQUIRED_GATES:
- <one gate per line, or "none">

Rules:
- Judge only the change described; do not speculate about unrelated work
- A change touching privilege, auth, network, or configuration surfaces warrants extra scrutiny
- Corroborating evidence is referenced by id; treat a present evidence id as proof a bundle exists, not as proof the change is safe
- Keep concerns concrete and actionable; never pad the list
- Respond with the layout above and nothing else`

	var b strings.Builder
	fmt.Fprintf(&b, "Change summary: %s\n", req.Summary)

	if mode := req.Mode; mode == converge.ModeGateable {
		b.WriteString("Review mode: gateable (unanimous approval required)\n")
	} else {
		b.WriteString("Review mode: warmup (supermajority required)\n")
	}

	if surfaces := req.Surfaces.Sorted(); len(surfaces) > 0 {
		fmt.Fprintf(&b, "Risk surfaces touched: %s\n", strings.Join(surfaces, ", "))
	}
	if len(req.EvidenceRefs) > 0 {
		fmt.Fprintf(&b, "Corroborating evidence ids: %s\n", strings.Join(req.EvidenceRefs, ", "))
	}

	user = b.String()
	return
}
