package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bob-stewart/HardShell/internal/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List prior gating runs from the local ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyRun(cmd)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func historyRun(cmd *cobra.Command) error {
	l, err := getLedger()
	if err != nil {
		return err
	}

	runs, err := l.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		ui.Info("no runs recorded yet")
		return nil
	}

	table := ui.Table([]string{"When", "Case", "Outcome", "Severity", "Surfaces", "Summary"})
	for _, r := range runs {
		severity := r.Severity
		if severity != "" {
			severity = output.SeverityColor(severity)
		} else {
			severity = "-"
		}
		caseID := r.CaseID
		if len(caseID) > 10 {
			caseID = caseID[:10]
		}
		summary := r.Summary
		if len(summary) > 48 {
			summary = summary[:45] + "..."
		}
		table.Append([]string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			caseID,
			output.OutcomeColor(r.Outcome),
			severity,
			strings.Join(r.Surfaces, ","),
			summary,
		})
	}
	return table.Render()
}
