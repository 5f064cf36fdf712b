package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"iriverpla/internal/logging"
	"iriverpla/internal/notifications"
	"iriverpla/internal/pla"
	"iriverpla/internal/playlist"
	"iriverpla/internal/preflight"
	"iriverpla/internal/store"
	"iriverpla/internal/workflow"
)

type planView struct {
	Playlist     string     `json:"playlist"`
	PlaylistPath string     `json:"playlist_path"`
	MusicDir     string     `json:"music_dir"`
	Duplicates   []string   `json:"duplicates"`
	ToCopy       []string   `json:"to_copy"`
	Songs        []songView `json:"songs"`
	Skipped      []skipView `json:"skipped"`
	Size         int64      `json:"size"`
}

type songView struct {
	Path      string `json:"path"`
	NameIndex int    `json:"name_index"`
	FileName  string `json:"file_name"`
}

type skipView struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func newPlanView(result *workflow.Result) planView {
	view := planView{
		Playlist:     result.PlaylistName,
		PlaylistPath: result.PlaylistPath,
		MusicDir:     result.MusicDir,
		Duplicates:   append([]string{}, result.Duplicates...),
		ToCopy:       append([]string{}, result.ToCopy...),
		Songs:        songViews(result.Songs),
		Skipped:      make([]skipView, 0, len(result.Skipped)),
		Size:         result.Size,
	}
	for _, s := range result.Skipped {
		view.Skipped = append(view.Skipped, skipView{Source: s.Source, Path: s.Path, Reason: s.Err.Error()})
	}
	return view
}

func songViews(songs []pla.Song) []songView {
	views := make([]songView, 0, len(songs))
	for _, song := range songs {
		views = append(views, songView{Path: song.Path, NameIndex: int(song.NameIndex), FileName: song.FileName()})
	}
	return views
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what generate would write without touching the player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
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

			result, err := workflow.NewManager(logger).Plan(cmd.Context(), p)
			if err != nil {
				return err
			}
			view := newPlanView(result)
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Playlist file: %s\n", view.PlaylistPath)
			fmt.Fprintf(out, "Music folder:  %s\n", view.MusicDir)
			fmt.Fprintln(out, renderStatusLine("Already on player", statusInfo, pluralize(len(view.Duplicates), "file", "files"), colorize))
			fmt.Fprintln(out, renderStatusLine("To copy", statusInfo, pluralize(len(view.ToCopy), "file", "files"), colorize))
			for _, path := range view.ToCopy {
				fmt.Fprintf(out, "%s  %s\n", statusIndent, path)
			}
			fmt.Fprintln(out, renderStatusLine("Songs", statusOK, fmt.Sprintf("%d", len(view.Songs)), colorize))
			for _, s := range view.Skipped {
				fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn, fmt.Sprintf("%s: %s", s.Source, s.Reason), colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Size", statusInfo, formatBytes(view.Size), colorize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the playlist file to the player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				p, err := ctx.loadPlaylist(cmd.Context(), st)
				if err != nil {
					return err
				}
				_, err = ctx.generate(cmd.Context(), cmd.OutOrStdout(), st, p, skipChecks)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip preflight checks")
	return cmd
}

// generate runs preflight checks and the generation workflow for p while
// holding the generation lock, then records the run in the store.
func (c *commandContext) generate(ctx context.Context, out io.Writer, st *store.Store, p *playlist.Playlist, skipChecks bool) (*workflow.Result, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	colorize := shouldColorize(out)

	if !skipChecks {
		results := preflight.RunAll(ctx, cfg, p)
		if failed := preflight.Failed(results); len(failed) > 0 {
			for _, r := range failed {
				fmt.Fprintln(out, renderStatusLine(r.Name, checkStatus(r), r.Detail, colorize))
			}
			return nil, fmt.Errorf("preflight failed: %s", pluralize(len(failed), "check", "checks"))
		}
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire generation lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another generation is already running")
	}
	defer func() { _ = lock.Unlock() }()

	mgr := workflow.NewManager(logger, workflow.WithNotifier(notifications.NewService(cfg)))
	result, err := mgr.DoWork(ctx, p, newConsoleListener(out, colorize))
	if err != nil {
		return result, err
	}

	if err := st.RecordGeneration(ctx, p.FileName(), len(result.Songs), result.Finished); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.WarnWithContext(logger, "failed to record generation", "generation_record_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "playlist history not updated"),
			)
		}
	}
	return result, nil
}

type inspectView struct {
	Count        int32      `json:"count"`
	CountMatches bool       `json:"count_matches"`
	Size         int64      `json:"size"`
	Songs        []songView `json:"songs"`
}

func newInspectCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "inspect <file.pla>",
		Short:       "Decode a PLA file and list its songs",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := pla.ReadFile(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, inspectView{
					Count:        file.Count,
					CountMatches: file.CountMatches(),
					Size:         file.Size,
					Songs:        songViews(file.Songs),
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Header count: %d\n", file.Count)
			fmt.Fprintf(out, "Size:         %s\n", formatBytes(file.Size))
			if !file.CountMatches() {
				fmt.Fprintln(out, renderStatusLine("Header", statusWarn,
					fmt.Sprintf("count %d but %s present", file.Count, pluralize(len(file.Songs), "song frame", "song frames")), colorize))
			}
			if len(file.Songs) == 0 {
				fmt.Fprintln(out, "No songs")
				return nil
			}
			rows := make([][]string, 0, len(file.Songs))
			for i, song := range songViews(file.Songs) {
				rows = append(rows, []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", song.NameIndex), song.Path, song.FileName})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "#", numeric: true},
				{header: "Index", numeric: true},
				{header: "Path"},
				{header: "File"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
