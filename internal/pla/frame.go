package pla

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

const (
	// FrameSize is the size of every header and song frame.
	FrameSize = 512
	// HeaderTag identifies a PLA file.
	HeaderTag = "iriver UMS PLA"
	// MaxPathUnits is the longest device path, in UTF-16 code units, that
	// fits a song frame together with its index and terminator.
	MaxPathUnits = (FrameSize - indexSize - terminatorSize) / 2

	countSize      = 4
	indexSize      = 2
	terminatorSize = 2
)

var (
	// ErrPathTooLong reports a device path that does not fit a song frame.
	ErrPathTooLong = errors.New("path too long for frame")
	// ErrInvalidFrame reports a frame that cannot be decoded.
	ErrInvalidFrame = errors.New("invalid pla frame")
)

// Song is one encoded playlist entry.
type Song struct {
	Path      string
	NameIndex uint16
}

// FileName returns the part of Path the name index points at.
func (s Song) FileName() string {
	units := encodeUnits(s.Path)
	start := int(s.NameIndex) - 1
	if start < 0 || start*2 > len(units) {
		return ""
	}
	name, err := utf16BE().NewDecoder().Bytes(units[start*2:])
	if err != nil {
		return ""
	}
	return string(name)
}

// Size returns the byte size of a file holding songs entries.
func Size(songs int) int64 {
	return int64(FrameSize) * int64(1+songs)
}

func utf16BE() encoding.Encoding {
	return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
}

func encodeUnits(path string) []byte {
	encoded, err := utf16BE().NewEncoder().Bytes([]byte(path))
	if err != nil {
		return nil
	}
	return encoded
}

// HeaderFrame returns the header frame for count songs.
func HeaderFrame(count int) []byte {
	frame := make([]byte, FrameSize)
	binary.BigEndian.PutUint32(frame[:countSize], uint32(int32(count)))
	copy(frame[countSize:], HeaderTag)
	return frame
}

// SongFrame returns the frame for song, or ErrPathTooLong when its path
// does not fit.
func SongFrame(song Song) ([]byte, error) {
	units, err := utf16BE().NewEncoder().Bytes([]byte(song.Path))
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", song.Path, err)
	}
	if len(units)/2 > MaxPathUnits {
		return nil, fmt.Errorf("%w: %d units, limit %d", ErrPathTooLong, len(units)/2, MaxPathUnits)
	}
	frame := make([]byte, FrameSize)
	binary.BigEndian.PutUint16(frame[:indexSize], song.NameIndex)
	copy(frame[indexSize:], units)
	return frame, nil
}

func parseHeader(frame []byte) (int32, error) {
	if len(frame) != FrameSize {
		return 0, fmt.Errorf("%w: header is %d bytes", ErrInvalidFrame, len(frame))
	}
	tag := frame[countSize : countSize+len(HeaderTag)]
	if string(tag) != HeaderTag {
		return 0, fmt.Errorf("%w: missing %q tag", ErrInvalidFrame, HeaderTag)
	}
	return int32(binary.BigEndian.Uint32(frame[:countSize])), nil
}

func parseSong(frame []byte) (Song, error) {
	if len(frame) != FrameSize {
		return Song{}, fmt.Errorf("%w: song frame is %d bytes", ErrInvalidFrame, len(frame))
	}
	index := binary.BigEndian.Uint16(frame[:indexSize])
	body := frame[indexSize:]
	end := len(body)
	for i := 0; i+1 < len(body); i += 2 {
		if body[i] == 0 && body[i+1] == 0 {
			end = i
			break
		}
	}
	path, err := utf16BE().NewDecoder().Bytes(body[:end])
	if err != nil {
		return Song{}, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	return Song{Path: string(path), NameIndex: index}, nil
}
