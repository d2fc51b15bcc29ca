package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/szaher/mapskey/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-check the key whenever the build metadata or config changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			paths := s.watchedFiles()
			if len(paths) == 0 {
				return fmt.Errorf("nothing to watch (set --info-plist or --xcconfig)")
			}

			ctx, cancel := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// Failures are logged by the launch sequence; watch keeps running.
			_, _ = s.resolve()

			w := &watch.Watcher{
				Paths:    paths,
				Debounce: debounce,
				Logger:   s.logger,
				OnChange: func(context.Context) {
					if err := s.reload(cmd); err != nil {
						s.logger.Error("reloading config failed", "error", err)
						return
					}
					_, _ = s.resolve()
				},
			}
			return w.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long after the last change before re-checking")

	return cmd
}
