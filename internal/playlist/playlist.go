package playlist

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultName is used when a playlist has no name.
	DefaultName = "playlist.pla"
	// Extension is the suffix every generated playlist file carries.
	Extension = ".pla"
)

// Lister returns the names of the files directly inside a directory.
type Lister interface {
	ListFiles(dir string) ([]string, error)
}

// ListFunc adapts a plain function to Lister.
type ListFunc func(dir string) ([]string, error)

// ListFiles calls f(dir).
func (f ListFunc) ListFiles(dir string) ([]string, error) { return f(dir) }

// Playlist is an ordered list of source song paths plus the settings that
// control how it is written to the player. Entries are not deduplicated.
// A Playlist is not safe for concurrent use.
type Playlist struct {
	// Name is the playlist file name; see FileName for the enforced form.
	Name string
	// MusicDestination is the player-side folder holding the songs, using
	// backslash separators (for example `\Music` or `D:\Music`).
	MusicDestination string
	// PlaylistDestination is the host directory receiving the .pla file.
	// Relative values resolve under DeviceRoot when it is set.
	PlaylistDestination string
	// PreserveFolder keeps each song's immediate source folder as an extra
	// path segment under MusicDestination.
	PreserveFolder bool
	// DeviceRoot is the optional host mount point of the player.
	DeviceRoot string

	entries []string
}

// New returns an empty playlist with the default name.
func New() *Playlist {
	return &Playlist{Name: DefaultName, PreserveFolder: true}
}

// AddFile appends one entry and returns the new entry count.
func (p *Playlist) AddFile(path string) int {
	p.entries = append(p.entries, path)
	return len(p.entries)
}

// AddFiles appends entries in order and returns the new entry count.
func (p *Playlist) AddFiles(paths []string) int {
	p.entries = append(p.entries, paths...)
	return len(p.entries)
}

// SetFiles replaces all entries and returns the new entry count.
func (p *Playlist) SetFiles(paths []string) int {
	p.entries = append([]string(nil), paths...)
	return len(p.entries)
}

// AddDirectory appends the supported files found directly inside dir and
// returns how many were accepted.
func (p *Playlist) AddDirectory(dir string, lister Lister) (int, error) {
	names, err := lister.ListFiles(dir)
	if err != nil {
		return 0, fmt.Errorf("directory %q was not found: %w", dir, err)
	}
	accepted := FilterSupported(names)
	paths := make([]string, 0, len(accepted))
	for _, name := range accepted {
		paths = append(paths, filepath.Join(dir, name))
	}
	p.AddFiles(paths)
	return len(paths), nil
}

// Entries returns a copy of the ordered entries.
func (p *Playlist) Entries() []string {
	return append([]string(nil), p.entries...)
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	return len(p.entries)
}

// String joins the entries with CRLF line breaks.
func (p *Playlist) String() string {
	return strings.Join(p.entries, "\r\n")
}

// FileName returns Name with the .pla suffix enforced. A differently cased
// suffix is rewritten rather than doubled.
func (p *Playlist) FileName() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return DefaultName
	}
	if strings.HasSuffix(name, Extension) {
		return name
	}
	if strings.HasSuffix(strings.ToLower(name), Extension) {
		return name[:len(name)-len(Extension)] + Extension
	}
	return name + Extension
}

// EncodedPath computes the device path for a single entry.
func (p *Playlist) EncodedPath(entry string) (EncodedPath, error) {
	return ComputeOutputPath(entry, p.MusicDestination, p.PreserveFolder)
}

// MusicDirectory returns the host directory that corresponds to
// MusicDestination. Without a device root the destination is used as given.
func (p *Playlist) MusicDirectory() string {
	if p.DeviceRoot == "" {
		return p.MusicDestination
	}
	return filepath.Join(append([]string{p.DeviceRoot}, deviceSegments(p.MusicDestination)...)...)
}

// PlaylistDirectory returns the host directory receiving the playlist file.
func (p *Playlist) PlaylistDirectory() string {
	dest := p.PlaylistDestination
	if p.DeviceRoot != "" && !filepath.IsAbs(dest) {
		return filepath.Join(p.DeviceRoot, dest)
	}
	return dest
}

// PlaylistFilePath returns the full host path of the generated file.
func (p *Playlist) PlaylistFilePath() string {
	return filepath.Join(p.PlaylistDirectory(), p.FileName())
}

// deviceSegments splits a device path into folder names, dropping a drive
// letter such as "D:".
func deviceSegments(devicePath string) []string {
	if len(devicePath) >= 2 && devicePath[1] == ':' {
		devicePath = devicePath[2:]
	}
	var segments []string
	for _, part := range strings.Split(devicePath, DeviceSeparator) {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
