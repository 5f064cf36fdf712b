package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"iriverpla/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDevice creates a fake player mount with music and playlist folders and
// points the playlist defaults at it.
func WithDevice() ConfigOption {
	return func(b *configBuilder) {
		root := filepath.Join(b.baseDir, "player")
		for _, dir := range []string{filepath.Join(root, "Music"), filepath.Join(root, "Playlists")} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				b.t.Fatalf("mkdir %s: %v", dir, err)
			}
		}
		b.cfg.Playlist.DeviceRoot = root
		b.cfg.Playlist.MusicDestination = `\Music`
		b.cfg.Playlist.PlaylistDestination = "Playlists"
	}
}

// WithNtfyTopic sets the ntfy endpoint on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithPreserveFolder overrides the default folder preservation setting.
func WithPreserveFolder(preserve bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Playlist.PreserveFolder = preserve
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// DeviceRoot returns the fake player mount created by WithDevice.
func DeviceRoot(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "player")
}
