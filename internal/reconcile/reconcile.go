package reconcile

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"iriverpla/internal/playlist"
)

// ErrDirectoryNotFound reports a music or playlist destination that does not
// exist or cannot be listed.
var ErrDirectoryNotFound = errors.New("directory not found")

// Snapshot is the set of file names found directly inside a destination
// directory at one point in time.
type Snapshot struct {
	Dir   string
	Taken time.Time
	names map[string]struct{}
}

// Take lists dir through lister and returns its snapshot.
func Take(dir string, lister playlist.Lister) (*Snapshot, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: destination is empty", ErrDirectoryNotFound)
	}
	names, err := lister.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, dir, err)
	}
	return NewSnapshot(dir, names), nil
}

// NewSnapshot builds a snapshot from an already collected name list.
func NewSnapshot(dir string, names []string) *Snapshot {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[filepath.Base(name)] = struct{}{}
	}
	return &Snapshot{Dir: dir, Taken: time.Now(), names: set}
}

// Contains reports whether a file called name is present.
func (s *Snapshot) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the snapshot contents in sorted order.
func (s *Snapshot) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Result partitions the playlist entries. Both slices keep playlist order
// and hold source paths.
type Result struct {
	Duplicates []string
	ToCopy     []string
}

// Total returns the number of entries considered.
func (r Result) Total() int {
	return len(r.Duplicates) + len(r.ToCopy)
}

// Reconcile matches each entry's final file name against snapshot. The
// playlist is not modified: duplicates still belong in the encoded file.
func Reconcile(entries []string, snapshot *Snapshot) Result {
	result := Result{
		Duplicates: make([]string, 0),
		ToCopy:     make([]string, 0, len(entries)),
	}
	for _, entry := range entries {
		if snapshot.Contains(filepath.Base(entry)) {
			result.Duplicates = append(result.Duplicates, entry)
			continue
		}
		result.ToCopy = append(result.ToCopy, entry)
	}
	return result
}

// Playlist takes a snapshot of p's music directory and reconciles p against it.
func Playlist(p *playlist.Playlist, lister playlist.Lister) (Result, *Snapshot, error) {
	snapshot, err := Take(p.MusicDirectory(), lister)
	if err != nil {
		return Result{}, nil, err
	}
	return Reconcile(p.Entries(), snapshot), snapshot, nil
}
