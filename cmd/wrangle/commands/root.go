package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openwrangle/openwrangle/pkg/telemetry"
)

var (
	// Global flags
	projectDir string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wrangle",
		Short: "openwrangle - deployment configuration compiler for OpenNext projects",
		Long: `openwrangle compiles a validated deployment configuration (deploy.yaml)
into the wrangler.toml artifact an OpenNext-on-Workers project deploys with,
and reads structured state back out of existing artifacts.

Features:
  - Schema and range validation with complete error reporting
  - Deterministic artifact generation from a feature matrix
  - Tolerant extraction from hand-edited artifacts
  - Drift detection between declared and on-disk state`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".", "project root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newDriftCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// newPublisher builds the per-invocation event publisher with a logging
// subscriber attached, honoring the global output flags.
func newPublisher() *telemetry.EventPublisher {
	level := "info"
	if verbose {
		level = "debug"
	}
	format := "console"
	if jsonOutput {
		format = "json"
	}

	logger := telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  level,
		Format: format,
		Output: "stderr",
	})

	pub := telemetry.NewEventPublisher()
	pub.Subscribe(telemetry.LoggingSubscriber(logger))
	return pub
}
