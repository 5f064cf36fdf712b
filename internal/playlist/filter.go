package playlist

import (
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the audio formats the player decodes.
var SupportedExtensions = []string{"ogg", "mp3", "wma", "flac"}

// IsSupported reports whether path carries one of SupportedExtensions.
// Matching ignores case so "TRACK.MP3" from a FAT volume is accepted.
func IsSupported(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	for _, supported := range SupportedExtensions {
		if strings.EqualFold(ext, supported) {
			return true
		}
	}
	return false
}

// FilterSupported returns the supported paths in their original order.
func FilterSupported(paths []string) []string {
	accepted := make([]string, 0, len(paths))
	for _, path := range paths {
		if IsSupported(path) {
			accepted = append(accepted, path)
		}
	}
	return accepted
}
