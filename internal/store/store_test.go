package store_test

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"iriverpla/internal/playlist"
	"iriverpla/internal/store"
	"iriverpla/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := os.Stat(cfg.DatabasePath()); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
	versions, err := st.Versions(context.Background())
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	want := []string{"001_init", "002_generation_history"}
	if !reflect.DeepEqual(versions, want) {
		t.Fatalf("versions = %v, want %v", versions, want)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testsupport.SavePlaylist(t, st, cfg, "road", "/m/a.mp3")
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	p, err := reopened.Load(context.Background(), "road.pla")
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", p.Len())
	}
}

func TestSaveAndLoadRoundTripsSettingsAndOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	p := playlist.New()
	p.Name = "road"
	p.MusicDestination = `D:\Music`
	p.PlaylistDestination = "/media/player/Playlists"
	p.PreserveFolder = false
	p.DeviceRoot = "/media/player"
	p.SetFiles([]string{"/m/b.mp3", "/m/a.mp3", "/m/b.mp3"})
	if err := st.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := st.Load(ctx, "road")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "road.pla" {
		t.Fatalf("expected stored name road.pla, got %q", loaded.Name)
	}
	if loaded.MusicDestination != p.MusicDestination || loaded.PlaylistDestination != p.PlaylistDestination ||
		loaded.PreserveFolder != p.PreserveFolder || loaded.DeviceRoot != p.DeviceRoot {
		t.Fatalf("settings not preserved: %+v", loaded)
	}
	if !reflect.DeepEqual(loaded.Entries(), p.Entries()) {
		t.Fatalf("entries = %v, want %v", loaded.Entries(), p.Entries())
	}

	p.SetFiles([]string{"/m/c.mp3"})
	if err := st.Save(ctx, p); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	loaded, err = st.Load(ctx, "road.pla")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Entries(), []string{"/m/c.mp3"}) {
		t.Fatalf("entries not replaced: %v", loaded.Entries())
	}
}

func TestLoadMissing(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, err := st.Load(context.Background(), "nothing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SavePlaylist(t, st, cfg, "zeta", "/m/a.mp3", "/m/b.mp3")
	testsupport.SavePlaylist(t, st, cfg, "alpha.pla")

	summaries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 || summaries[0].Name != "alpha.pla" || summaries[1].Name != "zeta.pla" {
		t.Fatalf("unexpected summaries %+v", summaries)
	}
	if summaries[1].Entries != 2 || summaries[0].Entries != 0 {
		t.Fatalf("unexpected entry counts %+v", summaries)
	}
	if summaries[0].CreatedAt.IsZero() {
		t.Fatal("expected created timestamp")
	}

	if err := st.Delete(ctx, "zeta"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(ctx, "zeta"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	summaries, err = st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 playlist after delete, got %d", len(summaries))
	}
}

func TestRecordGeneration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SavePlaylist(t, st, cfg, "road", "/m/a.mp3")

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := st.RecordGeneration(ctx, "road", 1, at); err != nil {
		t.Fatalf("RecordGeneration: %v", err)
	}
	summaries, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !summaries[0].LastGeneratedAt.Equal(at) || summaries[0].LastSongCount != 1 {
		t.Fatalf("unexpected generation record %+v", summaries[0])
	}
	if err := st.RecordGeneration(ctx, "missing", 1, at); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
