package preflight

import (
	"context"
	"strings"

	"iriverpla/internal/config"
	"iriverpla/internal/playlist"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional results never block generation.
	Optional bool
}

// RunAll executes all applicable preflight checks for cfg and the playlist
// about to be generated.
func RunAll(ctx context.Context, cfg *config.Config, p *playlist.Playlist) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if p != nil {
		results = append(results,
			CheckDirectoryReadable("Music destination", p.MusicDirectory()),
			CheckDirectoryAccess("Playlist destination", p.PlaylistDirectory()),
		)
		if strings.TrimSpace(p.DeviceRoot) != "" {
			results = append(results, CheckFATFilesystem("Player filesystem", p.DeviceRoot))
		}
		results = append(results, CheckEntries("Playlist entries", p))
	}

	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		check := CheckNtfy(ctx, topic)
		check.Optional = true
		results = append(results, check)
	}

	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
