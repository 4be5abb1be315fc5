package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openwrangle/openwrangle/pkg/status"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the project's deployment state",
		Long: `Assemble a summary of the project's deployment state from wrangler.toml,
open-next.config.ts, and package.json.

The artifact must exist; a missing wrangler.toml is an error so callers can
tell "never generated" apart from "generated but sparse".`,
		Example: `  # Human-readable status
  wrangle status

  # Machine-readable status
  wrangle status --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := status.Build(projectDir)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			printField("worker", report.WorkerName)
			printField("account", report.AccountID)
			printField("caching strategy", string(report.CachingStrategy))
			printField("environments", strings.Join(report.EnvironmentNames, ", "))
			printField("next.js", report.DetectedNextVersion)
			if !report.NextVersionSupported {
				fmt.Printf("! next.js version is below the supported minimum (%s)\n", status.MinSupportedNext)
			}
			for name, version := range report.Dependencies {
				fmt.Printf("  dep %s %s\n", name, version)
			}
			return nil
		},
	}

	return cmd
}

func printField(name, value string) {
	if value == "" {
		value = "(not detected)"
	}
	fmt.Printf("%-18s %s\n", name+":", value)
}
