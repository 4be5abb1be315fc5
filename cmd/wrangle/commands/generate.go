package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openwrangle/openwrangle/pkg/config"
	"github.com/openwrangle/openwrangle/pkg/telemetry"
	"github.com/openwrangle/openwrangle/pkg/wrangler"
)

func newGenerateCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile deploy.yaml into wrangler.toml",
		Long: `Validate the deployment configuration, resolve the feature matrix, and
compile the wrangler.toml artifact.

Generation fully replaces any existing wrangler.toml, including manual edits.
The same configuration always produces a byte-identical artifact.`,
		Example: `  # Generate into the current project
  wrangle generate

  # Print the artifact without writing it
  wrangle generate --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wrangler.LoadDeployConfig(projectDir)
			if err != nil {
				return err
			}

			if violations := config.NewValidator().Validate(cfg); len(violations) > 0 {
				for _, v := range violations {
					fmt.Printf("✗ error: %s\n", v.Error())
				}
				return wrangler.NewValidationError(
					fmt.Sprintf("configuration has %d violation(s)", len(violations)), nil)
			}

			sections := wrangler.ResolveSections(cfg)
			artifact := wrangler.Compile(cfg, sections)

			if dryRun {
				fmt.Print(artifact)
				return nil
			}

			if err := wrangler.WriteArtifact(projectDir, artifact); err != nil {
				return err
			}

			newPublisher().Publish(telemetry.EventTypeArtifactCompiled, "artifact compiled", map[string]interface{}{
				"worker":           cfg.WorkerName,
				"caching_strategy": string(cfg.CachingStrategy),
				"database":         string(cfg.Database),
			})
			log.Info().
				Str("worker", cfg.WorkerName).
				Str("project", projectDir).
				Msg("Wrote wrangler.toml")

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the artifact instead of writing it")

	return cmd
}
