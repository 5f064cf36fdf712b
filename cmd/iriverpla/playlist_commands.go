package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"iriverpla/internal/config"
	"iriverpla/internal/fileutil"
	"iriverpla/internal/playlist"
	"iriverpla/internal/store"
	"iriverpla/internal/workflow"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var allowDuplicates bool

	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Add song files or whole folders to the playlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			incoming, ignored, err := collectSources(args)
			if err != nil {
				return err
			}
			for _, path := range ignored {
				fmt.Fprintf(out, "Ignoring unsupported file %s\n", path)
			}

			var added int
			p, err := ctx.editPlaylist(cmd.Context(), func(p *playlist.Playlist) error {
				if !allowDuplicates {
					incoming = playlist.Unique(p.Entries(), incoming)
				}
				added = len(incoming)
				p.AddFiles(incoming)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Added %s to %s (%s total)\n",
				pluralize(added, "entry", "entries"), p.FileName(), pluralize(p.Len(), "entry", "entries"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowDuplicates, "allow-duplicates", false, "Keep entries already present in the playlist")
	return cmd
}

// collectSources expands folder arguments to their supported files and
// resolves every path to an absolute one.
func collectSources(args []string) (accepted []string, ignored []string, err error) {
	lister := playlist.ListFunc(fileutil.ListFiles)
	for _, arg := range args {
		path, err := filepath.Abs(strings.TrimSpace(arg))
		if err != nil {
			return nil, nil, fmt.Errorf("resolve %q: %w", arg, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %q: %w", arg, err)
		}
		if info.IsDir() {
			folder := playlist.New()
			if _, err := folder.AddDirectory(path, lister); err != nil {
				return nil, nil, err
			}
			accepted = append(accepted, folder.Entries()...)
			continue
		}
		if !playlist.IsSupported(path) {
			ignored = append(ignored, path)
			continue
		}
		accepted = append(accepted, path)
	}
	return accepted, ignored, nil
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <row>...",
		Short: "Remove entries by row number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed int
			p, err := ctx.editPlaylist(cmd.Context(), func(p *playlist.Playlist) error {
				rows, err := parseRows(args, p.Len())
				if err != nil {
					return err
				}
				entries, err := playlist.Remove(p.Entries(), rows)
				if err != nil {
					return err
				}
				removed = p.Len() - len(entries)
				p.SetFiles(entries)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", pluralize(removed, "entry", "entries"), p.FileName())
			return nil
		},
	}
}

func newMoveCommand(ctx *commandContext) *cobra.Command {
	moveCmd := &cobra.Command{
		Use:   "move",
		Short: "Reorder playlist entries",
	}
	moveCmd.AddCommand(newMoveDirectionCommand(ctx, "up", playlist.MoveUp))
	moveCmd.AddCommand(newMoveDirectionCommand(ctx, "down", playlist.MoveDown))
	return moveCmd
}

func newMoveDirectionCommand(ctx *commandContext, direction string, move func([]string, []int) ([]string, []int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   direction + " <row>...",
		Short: fmt.Sprintf("Move the selected rows one position %s", direction),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var moved []int
			_, err := ctx.editPlaylist(cmd.Context(), func(p *playlist.Playlist) error {
				rows, err := parseRows(args, p.Len())
				if err != nil {
					return err
				}
				entries, selected, err := move(p.Entries(), rows)
				if err != nil {
					return err
				}
				p.SetFiles(entries)
				moved = selected
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected rows now at %s\n", formatRows(moved))
			return nil
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry from the playlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.editPlaylist(cmd.Context(), func(p *playlist.Playlist) error {
				p.SetFiles(nil)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", p.FileName())
			return nil
		},
	}
}

type entryView struct {
	Row        int    `json:"row"`
	Source     string `json:"source"`
	DevicePath string `json:"device_path,omitempty"`
	NameIndex  int    `json:"name_index,omitempty"`
	Error      string `json:"error,omitempty"`
}

type playlistView struct {
	Name                string      `json:"name"`
	MusicDestination    string      `json:"music_destination"`
	PlaylistDestination string      `json:"playlist_destination"`
	PreserveFolder      bool        `json:"preserve_folder"`
	DeviceRoot          string      `json:"device_root,omitempty"`
	PlaylistPath        string      `json:"playlist_path"`
	Entries             []entryView `json:"entries"`
	ContentSize         *int64      `json:"content_size,omitempty"`
	ContentSizeError    string      `json:"content_size_error,omitempty"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the playlist entries and their device paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *playlist.Playlist
			err := ctx.withStore(func(st *store.Store) error {
				var err error
				p, err = ctx.loadPlaylist(cmd.Context(), st)
				return err
			})
			if err != nil {
				return err
			}
			view := buildPlaylistView(p)
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Playlist:    %s\n", view.Name)
			fmt.Fprintf(out, "Music:       %s\n", view.MusicDestination)
			fmt.Fprintf(out, "Written to:  %s\n", view.PlaylistPath)
			fmt.Fprintf(out, "Keep folder: %s\n", yesNo(view.PreserveFolder))
			if len(view.Entries) == 0 {
				fmt.Fprintln(out, "No entries")
				return nil
			}
			rows := make([][]string, 0, len(view.Entries))
			for _, entry := range view.Entries {
				devicePath := entry.DevicePath
				index := fmt.Sprintf("%d", entry.NameIndex)
				if entry.Error != "" {
					devicePath = entry.Error
					index = "-"
				}
				rows = append(rows, []string{fmt.Sprintf("%d", entry.Row), entry.Source, devicePath, index})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "#", numeric: true},
				{header: "Source"},
				{header: "Device Path"},
				{header: "Index", numeric: true},
			}, rows))
			if view.ContentSize != nil {
				fmt.Fprintf(out, "Content size: %s\n", formatBytes(*view.ContentSize))
			} else {
				fmt.Fprintf(out, "Content size: unavailable (%s)\n", view.ContentSizeError)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func buildPlaylistView(p *playlist.Playlist) playlistView {
	view := playlistView{
		Name:                p.FileName(),
		MusicDestination:    p.MusicDestination,
		PlaylistDestination: p.PlaylistDestination,
		PreserveFolder:      p.PreserveFolder,
		DeviceRoot:          p.DeviceRoot,
		PlaylistPath:        p.PlaylistFilePath(),
		Entries:             make([]entryView, 0, p.Len()),
	}
	for i, entry := range p.Entries() {
		ev := entryView{Row: i + 1, Source: entry}
		encoded, err := p.EncodedPath(entry)
		if err != nil {
			ev.Error = err.Error()
		} else {
			ev.DevicePath = encoded.OutputPath
			ev.NameIndex = encoded.NameIndex
		}
		view.Entries = append(view.Entries, ev)
	}
	if size, err := workflow.NewManager(nil).ContentSize(p); err != nil {
		view.ContentSizeError = err.Error()
	} else {
		view.ContentSize = &size
	}
	return view
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	var (
		name                string
		musicDestination    string
		playlistDestination string
		preserveFolder      bool
		deviceRoot          string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change playlist settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.NFlag() == 0 {
				return errors.New("no settings given (see --help)")
			}
			return ctx.withStore(func(st *store.Store) error {
				p, err := ctx.loadPlaylist(cmd.Context(), st)
				if err != nil {
					return err
				}
				oldKey := store.Key(p.Name)
				if flags.Changed("name") {
					p.Name = playlist.SanitizeName(name)
					if p.Name == "" {
						return errors.New("playlist name must not be empty")
					}
				}
				if flags.Changed("music-destination") {
					p.MusicDestination = config.NormalizeDevicePath(musicDestination)
				}
				if flags.Changed("playlist-destination") {
					p.PlaylistDestination = strings.TrimSpace(playlistDestination)
				}
				if flags.Changed("preserve-folder") {
					p.PreserveFolder = preserveFolder
				}
				if flags.Changed("device-root") {
					root, err := config.ExpandPath(strings.TrimSpace(deviceRoot))
					if err != nil {
						return err
					}
					p.DeviceRoot = root
				}

				newKey := store.Key(p.Name)
				renamed := newKey != oldKey
				if renamed {
					if _, err := st.Load(cmd.Context(), newKey); err == nil {
						return fmt.Errorf("playlist %s already exists", newKey)
					} else if !errors.Is(err, store.ErrNotFound) {
						return err
					}
				}
				if err := st.Save(cmd.Context(), p); err != nil {
					return err
				}
				if renamed {
					if err := st.Delete(cmd.Context(), oldKey); err != nil && !errors.Is(err, store.ErrNotFound) {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", newKey)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Rename the playlist")
	cmd.Flags().StringVar(&musicDestination, "music-destination", "", `Player folder holding the songs (for example \Music)`)
	cmd.Flags().StringVar(&playlistDestination, "playlist-destination", "", "Host directory receiving the .pla file")
	cmd.Flags().BoolVar(&preserveFolder, "preserve-folder", true, "Keep each song's source folder in the device path")
	cmd.Flags().StringVar(&deviceRoot, "device-root", "", "Host mount point of the player")
	return cmd
}

func newPlaylistsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "playlists",
		Short: "List stored playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				summaries, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					if summaries == nil {
						summaries = []store.Summary{}
					}
					return writeJSON(cmd, summaries)
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No playlists stored")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, sum := range summaries {
					generated := "never"
					if !sum.LastGeneratedAt.IsZero() {
						generated = fmt.Sprintf("%s (%d songs)",
							sum.LastGeneratedAt.Local().Format("2006-01-02 15:04"), sum.LastSongCount)
					}
					rows = append(rows, []string{
						sum.Name,
						fmt.Sprintf("%d", sum.Entries),
						sum.MusicDestination,
						sum.PlaylistDestination,
						generated,
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					{header: "Name"},
					{header: "Entries", numeric: true},
					{header: "Music"},
					{header: "Destination"},
					{header: "Last Generated"},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
