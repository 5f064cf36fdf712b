package workflow

import (
	"time"

	"iriverpla/internal/pla"
)

// Result describes a generation run, complete or not.
type Result struct {
	CorrelationID string
	PlaylistName  string
	PlaylistPath  string
	MusicDir      string

	// Duplicates are entries whose file name already exists in MusicDir.
	// They stay in the playlist file.
	Duplicates []string
	ToCopy     []string
	Copied     []string

	Songs   []pla.Song
	Skipped []pla.Skipped
	Size    int64

	Started  time.Time
	Finished time.Time
}

// Duration returns the run time.
func (r *Result) Duration() time.Duration {
	if r == nil || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
