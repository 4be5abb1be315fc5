package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openwrangle/openwrangle/pkg/wrangler"
)

const starterDeployConfig = `# openwrangle deployment configuration
# Run "wrangle generate" to compile this into wrangler.toml.

workerName: my-app
cachingStrategy: r2          # static-assets | r2 | r2-do-queue | r2-do-queue-tag-cache
database: none               # none | hyperdrive | d1
imageOptimization: false
analyticsEngine: false
nextJsVersion: "14.2.0"
compatibilityDate: "2024-09-23"

environments:
  - name: development
    observability:
      logs: true
      logSamplingRate: 1
      traces: false
      traceSamplingRate: 0
      logpush: false
  - name: production
    observability:
      logs: true
      logSamplingRate: 0.1
      traces: false
      traceSamplingRate: 0
      logpush: false
`

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a starter deploy.yaml",
		Long: `Write a starter deployment configuration into the project root.

The scaffold carries the conventional development and production environments
and conservative defaults; edit it and run "wrangle generate".`,
		Example: `  # Scaffold in the current directory
  wrangle init

  # Scaffold elsewhere, replacing an existing file
  wrangle init --project ./my-app --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(projectDir, wrangler.DeployConfigName)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", path)
			}

			if err := os.WriteFile(path, []byte(starterDeployConfig), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			log.Info().Str("path", path).Msg("Wrote starter deployment configuration")
			fmt.Printf("✓ Created %s\n", path)
			fmt.Printf("\nNext steps:\n")
			fmt.Printf("  1. Edit %s\n", path)
			fmt.Printf("  2. Run: wrangle validate\n")
			fmt.Printf("  3. Run: wrangle generate\n")

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace an existing deploy.yaml")

	return cmd
}
