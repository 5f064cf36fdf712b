package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iriverpla/internal/notifications"
	"iriverpla/internal/playlist"
	"iriverpla/internal/preflight"
	"iriverpla/internal/store"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var sendTest bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, the player and notification settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var p *playlist.Playlist
			if err := ctx.withStore(func(st *store.Store) error {
				p, err = ctx.loadPlaylist(cmd.Context(), st)
				return err
			}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Checks for "+p.FileName(), colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg, p)
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, checkStatus(r), r.Detail, colorize))
			}

			if sendTest {
				if cfg.Notifications.NtfyTopic == "" {
					fmt.Fprintln(out, renderStatusLine("Test notification", statusWarn, "ntfy_topic not configured", colorize))
				} else if err := notifications.NewService(cfg).TestNotification(cmd.Context()); err != nil {
					fmt.Fprintln(out, renderStatusLine("Test notification", statusError, err.Error(), colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine("Test notification", statusOK, "sent", colorize))
				}
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%s failed", pluralize(len(failed), "check", "checks"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sendTest, "notify", false, "Send a test notification")
	return cmd
}
