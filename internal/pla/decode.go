package pla

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// File is a decoded PLA file.
type File struct {
	// Count is the song count stored in the header.
	Count int32
	Songs []Song
	Size  int64
}

// CountMatches reports whether the header count equals the number of song
// frames present.
func (f *File) CountMatches() bool {
	return int(f.Count) == len(f.Songs)
}

// Decode reads a PLA file from r.
func Decode(r io.Reader) (*File, error) {
	frame := make([]byte, FrameSize)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInvalidFrame, err)
	}
	count, err := parseHeader(frame)
	if err != nil {
		return nil, err
	}
	file := &File{Count: count, Size: FrameSize}
	for {
		_, err := io.ReadFull(r, frame)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated song frame %d", ErrInvalidFrame, len(file.Songs)+1)
		}
		if err != nil {
			return nil, err
		}
		song, err := parseSong(frame)
		if err != nil {
			return nil, fmt.Errorf("song frame %d: %w", len(file.Songs)+1, err)
		}
		file.Songs = append(file.Songs, song)
		file.Size += FrameSize
	}
	return file, nil
}

// ReadFile decodes the PLA file at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
