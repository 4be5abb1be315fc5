package commands

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openwrangle/openwrangle/pkg/config"
	"github.com/openwrangle/openwrangle/pkg/telemetry"
	"github.com/openwrangle/openwrangle/pkg/wrangler"
)

// Editors fire several events per save; regeneration waits for the burst to
// settle.
const watchDebounce = 250 * time.Millisecond

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate wrangler.toml whenever deploy.yaml changes",
		Long: `Watch the deployment configuration and recompile the artifact on every
change. Invalid intermediate states are reported and skipped; the previous
artifact stays in place until the configuration validates again.

Stop with Ctrl-C.`,
		Example: `  # Watch the current project
  wrangle watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			// Watch the directory, not the file: editors replace files by
			// rename, which drops a file-level watch.
			if err := watcher.Add(projectDir); err != nil {
				return err
			}

			configPath := filepath.Join(projectDir, wrangler.DeployConfigName)
			log.Info().Str("path", configPath).Msg("Watching deployment configuration")

			pub := newPublisher()
			regenerate(pub)

			ctx := cmd.Context()
			var timer *time.Timer
			pending := make(chan struct{}, 1)

			for {
				select {
				case <-ctx.Done():
					log.Info().Msg("Stopping watch")
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != filepath.Clean(configPath) {
						continue
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(watchDebounce, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})

				case <-pending:
					regenerate(pub)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Error().Err(err).Msg("Watch error")
				}
			}
		},
	}

	return cmd
}

// regenerate compiles and writes the artifact once, logging instead of
// failing: the watch loop outlives transient invalid states.
func regenerate(pub *telemetry.EventPublisher) {
	cfg, err := wrangler.LoadDeployConfig(projectDir)
	if err != nil {
		log.Error().Err(err).Msg("Skipping regeneration")
		return
	}

	if violations := config.NewValidator().Validate(cfg); len(violations) > 0 {
		for _, v := range violations {
			log.Warn().Str("field", v.Field).Msg(v.Message)
		}
		log.Warn().Int("violations", len(violations)).Msg("Configuration invalid, keeping previous artifact")
		return
	}

	artifact := wrangler.Compile(cfg, wrangler.ResolveSections(cfg))
	if err := wrangler.WriteArtifact(projectDir, artifact); err != nil {
		log.Error().Err(err).Msg("Failed to write artifact")
		return
	}

	pub.Publish(telemetry.EventTypeArtifactCompiled, "artifact recompiled", map[string]interface{}{
		"worker": cfg.WorkerName,
	})
}
