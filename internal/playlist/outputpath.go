package playlist

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"unicode/utf16"
)

// DeviceSeparator joins path segments inside a playlist. The player reads a
// FAT filesystem, so this never follows the host convention.
const DeviceSeparator = `\`

// ErrUnencodablePath reports a source path that cannot be turned into a
// playlist path.
var ErrUnencodablePath = errors.New("unencodable path")

// EncodedPath is the device path of one song and the 1-based position, in
// UTF-16 code units, where its file name starts.
type EncodedPath struct {
	OutputPath string
	NameIndex  uint16
	FileName   string
}

// ComputeOutputPath maps sourcePath to its location under musicDestination.
//
//	preserveFolder: <musicDestination>\<parent folder>\<file>
//	otherwise:      <musicDestination>\<file>
//
// A source directly under the filesystem root has no parent folder name and
// is placed under musicDestination even when preserveFolder is set.
func ComputeOutputPath(sourcePath, musicDestination string, preserveFolder bool) (EncodedPath, error) {
	if sourcePath == "" {
		return EncodedPath{}, fmt.Errorf("%w: empty source path", ErrUnencodablePath)
	}
	absolute, err := filepath.Abs(sourcePath)
	if err != nil {
		return EncodedPath{}, fmt.Errorf("%w: resolve %q: %w", ErrUnencodablePath, sourcePath, err)
	}

	fileName := filepath.Base(absolute)
	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		return EncodedPath{}, fmt.Errorf("%w: %q has no file name", ErrUnencodablePath, sourcePath)
	}

	prefix := musicDestination + DeviceSeparator
	if preserveFolder {
		if folder := parentFolderName(absolute); folder != "" {
			prefix += folder + DeviceSeparator
		}
	}

	index := UTF16Len(prefix) + 1
	if index > math.MaxUint16 {
		return EncodedPath{}, fmt.Errorf("%w: name index %d overflows", ErrUnencodablePath, index)
	}

	return EncodedPath{
		OutputPath: prefix + fileName,
		NameIndex:  uint16(index),
		FileName:   fileName,
	}, nil
}

func parentFolderName(absolute string) string {
	parent := filepath.Base(filepath.Dir(absolute))
	if parent == "." || parent == string(filepath.Separator) {
		return ""
	}
	return parent
}

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
