package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openwrangle/openwrangle/pkg/config"
	"github.com/openwrangle/openwrangle/pkg/drift"
	"github.com/openwrangle/openwrangle/pkg/telemetry"
	"github.com/openwrangle/openwrangle/pkg/wrangler"
)

func newDriftCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Drift detection and reconciliation",
		Long: `Detect and reconcile drift between the deployment configuration and the
on-disk wrangler.toml.

Drift occurs when the artifact no longer carries what the configuration
declares — typically after hand edits or a configuration change that was never
regenerated.`,
	}

	cmd.AddCommand(newDriftDetectCommand())
	cmd.AddCommand(newDriftReconcileCommand())

	return cmd
}

func newDriftDetectCommand() *cobra.Command {
	var reportFile string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect drift between deploy.yaml and wrangler.toml",
		Long: `Compare the declared configuration with what is recoverable from the
artifact and report every finding. Warnings alone exit zero; any
error-severity finding exits non-zero.`,
		Example: `  # Detect drift in the current project
  wrangle drift detect

  # Write the findings to a report file
  wrangle drift detect --report drift-report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wrangler.LoadDeployConfig(projectDir)
			if err != nil {
				return err
			}
			if violations := config.NewValidator().Validate(cfg); len(violations) > 0 {
				return wrangler.NewValidationError(
					fmt.Sprintf("deploy.yaml has %d violation(s); run wrangle validate", len(violations)), nil)
			}

			text, err := wrangler.ReadArtifact(projectDir)
			if err != nil {
				return err
			}
			view := wrangler.ExtractView(text)

			diags := drift.Check(cfg, &view)

			if len(diags) > 0 {
				newPublisher().Publish(telemetry.EventTypeDriftDetected, "drift detected", map[string]interface{}{
					"findings": len(diags),
				})
			}

			if reportFile != "" {
				data, err := json.MarshalIndent(diags, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode drift report: %w", err)
				}
				if err := os.WriteFile(reportFile, data, 0644); err != nil {
					return fmt.Errorf("failed to write drift report: %w", err)
				}
				log.Info().Str("report", reportFile).Msg("Wrote drift report")
			}

			if err := printDiagnostics(diags); err != nil {
				return err
			}

			if drift.HasErrors(diags) {
				return fmt.Errorf("drift check found %d finding(s) with errors", len(diags))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportFile, "report", "", "drift report output file")

	return cmd
}

func newDriftReconcileCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Regenerate the artifact to match the configuration",
		Long: `Reconcile drift by recompiling wrangler.toml from deploy.yaml.

This is a full regeneration: manual edits to the artifact are discarded.`,
		Example: `  # Reconcile the current project
  wrangle drift reconcile

  # Show the regenerated artifact without writing it
  wrangle drift reconcile --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wrangler.LoadDeployConfig(projectDir)
			if err != nil {
				return err
			}
			if violations := config.NewValidator().Validate(cfg); len(violations) > 0 {
				return wrangler.NewValidationError(
					fmt.Sprintf("deploy.yaml has %d violation(s); run wrangle validate", len(violations)), nil)
			}

			artifact := wrangler.Compile(cfg, wrangler.ResolveSections(cfg))
			if dryRun {
				fmt.Print(artifact)
				return nil
			}

			if err := wrangler.WriteArtifact(projectDir, artifact); err != nil {
				return err
			}
			log.Info().Str("worker", cfg.WorkerName).Msg("Reconciled wrangler.toml")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the regenerated artifact without writing it")

	return cmd
}

func printDiagnostics(diags []drift.Diagnostic) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diags)
	}

	if len(diags) == 0 {
		fmt.Println("✓ no drift detected")
		return nil
	}
	for _, d := range diags {
		marker := "!"
		if d.Severity == drift.SeverityError {
			marker = "✗"
		}
		fmt.Printf("%s %s [%s]: %s\n", marker, d.Severity, d.Code, d.Message)
		if d.Fix != "" {
			fmt.Printf("  fix: %s\n", d.Fix)
		}
	}
	return nil
}
