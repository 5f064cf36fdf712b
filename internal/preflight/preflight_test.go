package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"iriverpla/internal/config"
	"iriverpla/internal/playlist"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryReadable_Empty(t *testing.T) {
	result := CheckDirectoryReadable("music", "  ")
	if result.Passed || result.Detail != "not configured" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckFATFilesystem_RejectsTempDir(t *testing.T) {
	// Test temp directories live on tmpfs/ext4/overlay, never on FAT.
	result := CheckFATFilesystem("player", t.TempDir())
	if result.Passed {
		t.Skipf("temp dir is on a FAT volume: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "not a FAT filesystem") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckFATFilesystem_Missing(t *testing.T) {
	result := CheckFATFilesystem("player", filepath.Join(t.TempDir(), "missing"))
	if result.Passed || !strings.Contains(result.Detail, "statfs") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckEntries(t *testing.T) {
	p := playlist.New()
	p.MusicDestination = `\Music`
	if result := CheckEntries("entries", p); result.Passed {
		t.Fatal("expected empty playlist to fail")
	}

	p.SetFiles([]string{"/m/a.mp3", "/m/" + strings.Repeat("z", 300) + ".mp3"})
	result := CheckEntries("entries", p)
	if !result.Passed || !strings.Contains(result.Detail, "1 too long") {
		t.Fatalf("unexpected result %+v", result)
	}

	p.AddFile("")
	if result := CheckEntries("entries", p); result.Passed {
		t.Fatal("expected unencodable entry to fail")
	}
}

func TestCheckNtfy_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player/json" || r.URL.Query().Get("poll") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL+"/player/")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckNtfy_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	result := CheckNtfy(context.Background(), srv.URL+"/player")
	if result.Passed || !strings.Contains(result.Detail, "access denied") {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunAllWithPlaylist(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	music := filepath.Join(base, "music")
	lists := filepath.Join(base, "lists")
	for _, dir := range []string{music, lists} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	p := playlist.New()
	p.MusicDestination = music
	p.PlaylistDestination = lists
	p.AddFile("/src/a.mp3")

	results := RunAll(context.Background(), &cfg, p)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %+v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures %+v", failed)
	}

	p.PlaylistDestination = filepath.Join(base, "missing")
	failed := Failed(RunAll(context.Background(), &cfg, p))
	if len(failed) != 1 || failed[0].Name != "Playlist destination" {
		t.Fatalf("expected playlist destination failure, got %+v", failed)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}
