package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openwrangle/openwrangle/pkg/config"
	"github.com/openwrangle/openwrangle/pkg/drift"
	"github.com/openwrangle/openwrangle/pkg/status"
	"github.com/openwrangle/openwrangle/pkg/telemetry"
	"github.com/openwrangle/openwrangle/pkg/wrangler"
)

func newValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the deployment configuration",
		Long: `Validate deploy.yaml against the schema and value ranges.

All violations are reported at once, not just the first. When a wrangler.toml
already exists, the consistency checker also compares the configuration with
what is recoverable from it and reports drift findings.

With --strict, the configuration is additionally unified against the built-in
CUE schemas.`,
		Example: `  # Validate the current project
  wrangle validate

  # Strict validation with machine-readable output
  wrangle validate --strict --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wrangler.LoadDeployConfig(projectDir)
			if err != nil {
				return err
			}

			violations := config.NewValidator().Validate(cfg)

			if strict && len(violations) == 0 {
				sr := config.NewSchemaRegistry()
				if err := sr.ValidateDeployment(cmd.Context(), *cfg); err != nil {
					violations = append(violations, config.ValidationError{
						Field:    "config",
						Message:  err.Error(),
						Severity: "error",
					})
				}
			}

			var diags []drift.Diagnostic
			if text, readErr := wrangler.ReadArtifact(projectDir); readErr == nil {
				view := wrangler.ExtractView(text)
				diags = drift.Check(cfg, &view)
			} else if !wrangler.IsNotFound(readErr) {
				return readErr
			} else {
				diags = drift.Check(cfg, nil)
			}

			report := status.BuildValidationReport(violations, diags)
			if err := printValidationReport(report); err != nil {
				return err
			}

			if !report.Valid {
				newPublisher().Publish(telemetry.EventTypeValidationFailed, "configuration is invalid", map[string]interface{}{
					"errors": len(report.Errors),
				})
				return wrangler.NewValidationError("configuration is invalid", nil)
			}

			log.Info().Int("warnings", len(report.Warnings)).Msg("Configuration is valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "also validate against the built-in CUE schemas")

	return cmd
}

func printValidationReport(report *status.ValidationReport) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, e := range report.Errors {
		fmt.Printf("✗ error: %s\n", e)
	}
	for _, w := range report.Warnings {
		fmt.Printf("! warning: %s\n", w)
	}
	for _, f := range report.Fixes {
		fmt.Printf("  fix: %s\n", f)
	}
	if report.Valid {
		fmt.Println("✓ configuration is valid")
	}
	return nil
}
