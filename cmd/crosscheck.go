package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bob-stewart/HardShell/internal/classify"
	"github.com/bob-stewart/HardShell/internal/engine"
	"github.com/bob-stewart/HardShell/internal/models"
	"github.com/bob-stewart/HardShell/internal/output"
)

var (
	crosscheckSummary  string
	crosscheckEvidence string
	crosscheckWarmup   bool
	crosscheckSurfaces []string
	crosscheckFiles    []string
	crosscheckBase     string
)

var crosscheckCmd = &cobra.Command{
	Use:   "crosscheck",
	Short: "Run the change gate: classify, require evidence, fan out to reviewers",
	Long: `Run one gating pass over a proposed change.

The changed-file list comes from --file flags, or from 'git diff
--name-only' against --base when no files are given. Non-gateable
changes exit 0 without writing anything; gateable changes require
--evidence and a converged reviewer panel, otherwise the run escalates
and exits ` + fmt.Sprint(ExitEscalated) + `.

The final JSON result is always printed to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return crosscheckRun(cmd.Context())
	},
}

func init() {
	crosscheckCmd.Flags().StringVarP(&crosscheckSummary, "summary", "s", "", "One-line summary of the change (required)")
	crosscheckCmd.Flags().StringVarP(&crosscheckEvidence, "evidence", "e", "", "Evidence bundle id corroborating the change")
	crosscheckCmd.Flags().BoolVar(&crosscheckWarmup, "warmup", false, "Force warmup mode (supermajority quorum, runs even when not gateable)")
	crosscheckCmd.Flags().StringSliceVar(&crosscheckSurfaces, "surface", nil, "Force a risk surface in addition to classified ones (repeatable)")
	crosscheckCmd.Flags().StringSliceVarP(&crosscheckFiles, "file", "f", nil, "Changed file path (repeatable; default: git diff against --base)")
	crosscheckCmd.Flags().StringVar(&crosscheckBase, "base", "", "Git ref to diff against when no --file is given (default HEAD)")
	_ = crosscheckCmd.MarkFlagRequired("summary")
	rootCmd.AddCommand(crosscheckCmd)
}

func crosscheckRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	files := crosscheckFiles
	if len(files) == 0 {
		files = changedFilesFromGit(crosscheckBase)
	}

	params := engine.Params{
		Summary:        crosscheckSummary,
		EvidenceID:     crosscheckEvidence,
		ForceWarmup:    crosscheckWarmup,
		ForcedSurfaces: crosscheckSurfaces,
		ChangedFiles:   files,
	}

	if dryRun {
		return crosscheckDryRun(params)
	}

	e, err := getEngine()
	if err != nil {
		return err
	}

	res, err := e.Run(ctx, params)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		ui.Warning("%s", w)
	}

	// The structured result always goes to stdout, whatever the outcome.
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Fprintln(ui.Out, string(data))

	switch res.Outcome {
	case engine.OutcomeNoop:
		ui.Info("change is not gateable; nothing to review")
	case engine.OutcomeConverged:
		ui.Success("reviewers converged; case %s is in review", res.CaseID)
	case engine.OutcomeEscalated:
		ui.Error("run escalated; case %s requires the chair", res.CaseID)
		os.Exit(ExitEscalated)
	}
	return nil
}

// crosscheckDryRun classifies and checks the evidence gate without
// calling reviewers or writing artifacts.
func crosscheckDryRun(p engine.Params) error {
	surfaces := classify.Paths(p.ChangedFiles)
	for _, s := range p.ForcedSurfaces {
		surfaces.Add(models.Surface(s))
	}

	if len(surfaces) > 0 {
		ui.Info("surfaces: %s", strings.Join(surfaces.Sorted(), ", "))
	} else {
		ui.Info("surfaces: (none)")
	}

	switch {
	case !surfaces.Gateable() && !p.ForceWarmup:
		ui.DryRunMsg("not gateable; run would be a no-op")
	case surfaces.Gateable() && p.EvidenceID == "":
		ui.DryRunMsg("gateable without evidence; run would fail closed (%s)", output.Red("escalated"))
	default:
		ui.DryRunMsg("would fan out to %d reviewer(s)", len(reviewerRoster()))
	}
	return nil
}
