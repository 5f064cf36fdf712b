package testsupport

import (
	"context"
	"testing"

	"iriverpla/internal/config"
	"iriverpla/internal/playlist"
	"iriverpla/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SavePlaylist stores a playlist built from the config defaults with the
// given entries.
func SavePlaylist(t testing.TB, st *store.Store, cfg *config.Config, name string, entries ...string) *playlist.Playlist {
	t.Helper()

	p := playlist.New()
	p.Name = name
	p.MusicDestination = cfg.Playlist.MusicDestination
	p.PlaylistDestination = cfg.Playlist.PlaylistDestination
	p.PreserveFolder = cfg.Playlist.PreserveFolder
	p.DeviceRoot = cfg.Playlist.DeviceRoot
	p.SetFiles(entries)
	if err := st.Save(context.Background(), p); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return p
}
