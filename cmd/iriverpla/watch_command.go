package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"iriverpla/internal/device"
	"iriverpla/internal/logging"
	"iriverpla/internal/store"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var generate bool
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Wait for the player to be plugged in",
		Long: "Listen for udev events announcing the player's FAT partition. With --generate the\n" +
			"selected playlist is written to the player every time it is mounted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := func(hctx context.Context, part device.Partition) error {
				mount, err := device.MountPoint(part.DevName)
				if err != nil {
					return fmt.Errorf("locate mount for %s: %w", part.DevName, err)
				}
				fmt.Fprintf(out, "Player %s (%s) mounted at %s\n", part.Label, part.DevName, mount)
				if !generate {
					return nil
				}
				return ctx.withStore(func(st *store.Store) error {
					p, err := ctx.loadPlaylist(hctx, st)
					if err != nil {
						return err
					}
					p.DeviceRoot = mount
					_, err = ctx.generate(hctx, out, st, p, skipChecks)
					return err
				})
			}

			monitor := device.NewMonitor(cfg, logger, handler)
			if err := monitor.Start(sigCtx); err != nil {
				return err
			}
			defer monitor.Stop()

			label := cfg.Device.WatchLabel
			if label == "" {
				label = "any vfat partition"
			}
			fmt.Fprintf(out, "Watching for %s (Ctrl+C to stop)\n", label)
			logger.Info("watching for player",
				logging.String(logging.FieldEventType, "watch_started"),
				logging.Bool("generate", generate),
			)

			<-sigCtx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "Generate the playlist whenever the player is mounted")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip preflight checks when generating")
	return cmd
}
