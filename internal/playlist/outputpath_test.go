package playlist_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf16"

	"iriverpla/internal/playlist"
)

func TestComputeOutputPathPreserveFolder(t *testing.T) {
	got, err := playlist.ComputeOutputPath("/a/b/Rock/Track1.mp3", `D:\Music`, true)
	if err != nil {
		t.Fatalf("ComputeOutputPath: %v", err)
	}
	if got.OutputPath != `D:\Music\Rock\Track1.mp3` {
		t.Fatalf("unexpected output path %q", got.OutputPath)
	}
	if got.NameIndex != 15 {
		t.Fatalf("expected name index 15, got %d", got.NameIndex)
	}
}

func TestComputeOutputPathFlat(t *testing.T) {
	got, err := playlist.ComputeOutputPath("/a/b/Rock/Track1.mp3", `D:\Music`, false)
	if err != nil {
		t.Fatalf("ComputeOutputPath: %v", err)
	}
	if got.OutputPath != `D:\Music\Track1.mp3` {
		t.Fatalf("unexpected output path %q", got.OutputPath)
	}
	// `D:\Music\` is nine characters, so the name starts at position ten.
	if got.NameIndex != 10 {
		t.Fatalf("expected name index 10, got %d", got.NameIndex)
	}
}

func TestComputeOutputPathNameIndexLocatesFileName(t *testing.T) {
	cases := []struct {
		source   string
		dest     string
		preserve bool
	}{
		{"/home/user/Music/Rock/Track1.mp3", `D:\Music`, true},
		{"/home/user/Music/Rock/Track1.mp3", `\Music`, false},
		{"/srv/Björk/Jóga.flac", `\Music`, true},
		{"/srv/𝄞 Clefs/𝄞 theme.ogg", `\Music\Sub`, true},
		{"/srv/Track1.mp3/Track1.mp3", `\Track1.mp3`, true},
		{"/root-song.wma", `\Music`, true},
	}
	for _, tc := range cases {
		got, err := playlist.ComputeOutputPath(tc.source, tc.dest, tc.preserve)
		if err != nil {
			t.Fatalf("ComputeOutputPath(%q): %v", tc.source, err)
		}
		units := utf16.Encode([]rune(got.OutputPath))
		name := utf16.Encode([]rune(filepath.Base(tc.source)))
		start := int(got.NameIndex) - 1
		if start < 0 || start+len(name) != len(units) {
			t.Fatalf("%q: name index %d does not end at path end (%d units)", tc.source, got.NameIndex, len(units))
		}
		if string(utf16.Decode(units[start:])) != filepath.Base(tc.source) {
			t.Fatalf("%q: name index %d points at %q", tc.source, got.NameIndex, string(utf16.Decode(units[start:])))
		}
		if got.FileName != filepath.Base(tc.source) {
			t.Fatalf("unexpected file name %q", got.FileName)
		}
	}
}

func TestComputeOutputPathRootFileSkipsFolderSegment(t *testing.T) {
	got, err := playlist.ComputeOutputPath("/song.mp3", `\Music`, true)
	if err != nil {
		t.Fatalf("ComputeOutputPath: %v", err)
	}
	if got.OutputPath != `\Music\song.mp3` {
		t.Fatalf("unexpected output path %q", got.OutputPath)
	}
}

func TestComputeOutputPathRelativeSourceResolvesAgainstWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	got, err := playlist.ComputeOutputPath("track.ogg", `\Music`, true)
	if err != nil {
		t.Fatalf("ComputeOutputPath: %v", err)
	}
	want := `\Music\` + filepath.Base(dir) + `\track.ogg`
	if got.OutputPath != want {
		t.Fatalf("expected %q, got %q", want, got.OutputPath)
	}
}

func TestComputeOutputPathRejectsEmptyAndRoot(t *testing.T) {
	for _, source := range []string{"", "/"} {
		_, err := playlist.ComputeOutputPath(source, `\Music`, true)
		if !errors.Is(err, playlist.ErrUnencodablePath) {
			t.Fatalf("source %q: expected ErrUnencodablePath, got %v", source, err)
		}
	}
}

func TestComputeOutputPathRejectsIndexOverflow(t *testing.T) {
	dest := `\` + strings.Repeat("x", 70000)
	_, err := playlist.ComputeOutputPath("/a/b.mp3", dest, false)
	if !errors.Is(err, playlist.ErrUnencodablePath) {
		t.Fatalf("expected ErrUnencodablePath, got %v", err)
	}
}

func TestUTF16Len(t *testing.T) {
	cases := map[string]int{"": 0, "abc": 3, "Jóga": 4, "𝄞": 2}
	for input, want := range cases {
		if got := playlist.UTF16Len(input); got != want {
			t.Fatalf("UTF16Len(%q) = %d, want %d", input, got, want)
		}
	}
}
