package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bob-stewart/HardShell/internal/classify"
	"github.com/bob-stewart/HardShell/internal/output"
)

var classifyBase string

var classifyCmd = &cobra.Command{
	Use:   "classify [path...]",
	Short: "Classify file paths into risk surfaces",
	Long: `Classify changed file paths into risk surfaces and report whether
they would gate. With no arguments, paths come from 'git diff
--name-only' against --base.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return classifyRun(args)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyBase, "base", "", "Git ref to diff against when no paths are given (default HEAD)")
	rootCmd.AddCommand(classifyCmd)
}

func classifyRun(paths []string) error {
	if len(paths) == 0 {
		paths = changedFilesFromGit(classifyBase)
	}
	if len(paths) == 0 {
		ui.Info("no changed files")
		return nil
	}

	table := ui.Table([]string{"Path", "Surfaces", "Gateable"})
	for _, p := range paths {
		set := classify.Path(p)
		surfaces := "-"
		if s := set.Sorted(); len(s) > 0 {
			surfaces = strings.Join(s, ", ")
		}
		gate := "no"
		if set.Gateable() {
			gate = output.Red("yes")
		}
		table.Append([]string{p, surfaces, gate})
	}
	if err := table.Render(); err != nil {
		return err
	}

	all := classify.Paths(paths)
	if all.Gateable() {
		ui.Warning("change is gateable; crosscheck requires --evidence")
	} else {
		ui.Success("change is not gateable")
	}
	return nil
}

// reviewerRoster returns the configured reviewer roster.
func reviewerRoster() []string {
	return viper.GetStringSlice("review.reviewers")
}
