package pla

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"iriverpla/internal/fileutil"
	"iriverpla/internal/logging"
	"iriverpla/internal/playlist"
)

// ErrFileWrite reports a playlist file that could not be created or written.
var ErrFileWrite = errors.New("playlist file write failed")

// Skipped is a playlist entry left out of the encoded file.
type Skipped struct {
	Source string
	Path   string
	Err    error
}

// Document is a fully prepared playlist file: every frame is known before
// any byte is written.
type Document struct {
	Songs   []Song
	Skipped []Skipped
	frames  [][]byte
}

// Size returns the byte size of the encoded document.
func (d *Document) Size() int64 {
	if d == nil {
		return Size(0)
	}
	return Size(len(d.Songs))
}

// WriteTo writes the header and song frames to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var written int64
	n, err := w.Write(HeaderFrame(len(d.frames)))
	written += int64(n)
	if err != nil {
		return written, err
	}
	for _, frame := range d.frames {
		n, err := w.Write(frame)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Encoder prepares and writes PLA files for playlists.
type Encoder struct {
	logger *slog.Logger
}

// NewEncoder returns an encoder logging skipped entries to logger.
func NewEncoder(logger *slog.Logger) *Encoder {
	return &Encoder{logger: logging.NewComponentLogger(logger, "pla")}
}

// Prepare computes the device path of every entry. An entry whose path
// cannot be computed aborts preparation with playlist.ErrUnencodablePath;
// an entry too long for a frame is recorded in Skipped and logged.
func (e *Encoder) Prepare(p *playlist.Playlist) (*Document, error) {
	entries := p.Entries()
	doc := &Document{
		Songs:  make([]Song, 0, len(entries)),
		frames: make([][]byte, 0, len(entries)),
	}
	for _, entry := range entries {
		encoded, err := p.EncodedPath(entry)
		if err != nil {
			return nil, fmt.Errorf("song %q path and index extraction failed: %w", entry, err)
		}
		song := Song{Path: encoded.OutputPath, NameIndex: encoded.NameIndex}
		frame, err := SongFrame(song)
		if errors.Is(err, ErrPathTooLong) {
			doc.Skipped = append(doc.Skipped, Skipped{Source: entry, Path: encoded.OutputPath, Err: err})
			logging.WarnWithContext(e.logger, "song path too long, skipping",
				"pla_path_too_long",
				logging.String("source", entry),
				logging.Int("units", playlist.UTF16Len(encoded.OutputPath)),
				logging.Int("limit", MaxPathUnits),
				logging.String(logging.FieldErrorHint, "shorten the music destination or folder names"),
				logging.String(logging.FieldImpact, "song is missing from the playlist file"),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("song %q: %w: %w", entry, playlist.ErrUnencodablePath, err)
		}
		doc.Songs = append(doc.Songs, song)
		doc.frames = append(doc.frames, frame)
	}
	return doc, nil
}

// WriteFile writes doc to path, replacing any existing file. The file is
// either completely written or left untouched. The parent directory must
// already exist.
func (e *Encoder) WriteFile(path string, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nothing to write", ErrFileWrite)
	}
	err := fileutil.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileWrite, path, err)
	}
	e.logger.Debug("playlist file written",
		logging.String("path", path),
		logging.Int("songs", len(doc.Songs)),
		logging.Int64("bytes", doc.Size()),
	)
	return nil
}
