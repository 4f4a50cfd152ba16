package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bob-stewart/HardShell/internal/artifact"
	"github.com/bob-stewart/HardShell/internal/engine"
	"github.com/bob-stewart/HardShell/internal/git"
	"github.com/bob-stewart/HardShell/internal/oracle"
	"github.com/bob-stewart/HardShell/internal/output"
	"github.com/bob-stewart/HardShell/internal/store"
)

// Process exit codes automation gates on. Zero covers both the
// not-gateable no-op and converged success; escalation gets its own
// code so CI can block on it; any other failure exits 1.
const (
	ExitOK        = 0
	ExitEscalated = 3
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui     *output.UI
	ledger store.Store

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "hardshell",
	Short: "HardShell - evidence-gated change review with reviewer quorum",
	Long: `hardshell gates sensitive changes behind independent review.
It classifies changed files into risk surfaces, requires corroborating
evidence for gateable changes, fans the change out to a panel of LLM
reviewers, and escalates unless the panel converges.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without calling reviewers or writing artifacts")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/hardshell/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "hardshell")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HARDSHELL")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	cfgDir := filepath.Join(home, ".config", "hardshell")

	viper.SetDefault("state_dir", cfgDir)
	viper.SetDefault("db_path", filepath.Join(cfgDir, "hardshell.db"))
	viper.SetDefault("artifact_dir", filepath.Join(cfgDir, "artifacts"))
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.timeout_ms", 45000)
	viper.SetDefault("anthropic.max_tokens", 1024)
	viper.SetDefault("review.reviewers", []string{
		"claude-opus-4-1-20250805",
		"claude-sonnet-4-5-20250929",
		"claude-haiku-4-5-20251001",
	})
	viper.SetDefault("review.required_count", 3)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// The ledger opens lazily so config/version commands run without
	// touching the database.
}

// getLedger returns the shared run ledger, initializing it on first call.
func getLedger() (store.Store, error) {
	if ledger != nil {
		return ledger, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	ledger = s
	return ledger, nil
}

// getEngine assembles the gating engine from configuration. The oracle
// is nil when no API key is configured: no-op and fail-closed runs
// still work, and a run that needs reviewer calls fails with a
// configuration error before any call.
func getEngine() (*engine.Engine, error) {
	l, err := getLedger()
	if err != nil {
		// A broken ledger degrades to an unindexed run.
		ui.Warning("run ledger unavailable: %v", err)
		l = nil
	}

	var o oracle.Oracle
	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey != "" {
		o = oracle.NewClient(apiKey,
			time.Duration(viper.GetInt("anthropic.timeout_ms"))*time.Millisecond,
			viper.GetInt64("anthropic.max_tokens"))
	}

	gc := git.NewClient()
	dir := artifact.NewDirStore(viper.GetString("artifact_dir"), gc)

	return engine.New(o, artifact.NewEmitter(dir), l, engine.Config{
		Reviewers:     viper.GetStringSlice("review.reviewers"),
		RequiredCount: viper.GetInt("review.required_count"),
	}), nil
}

// changedFilesFromGit derives the changed-file list when the caller
// does not pass one explicitly. Best-effort: outside a repo the list
// is empty and classification sees no paths.
func changedFilesFromGit(baseRef string) []string {
	gc := git.NewClient()
	files, err := gc.ChangedFiles(".", baseRef)
	if err != nil {
		ui.VerboseLog("git diff unavailable: %v", err)
		return nil
	}
	return files
}
