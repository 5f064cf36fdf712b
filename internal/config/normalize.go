package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePlaylist(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlaylist() error {
	c.Playlist.Name = strings.TrimSpace(c.Playlist.Name)
	if c.Playlist.Name == "" {
		c.Playlist.Name = defaultPlaylistName
	}
	c.Playlist.MusicDestination = NormalizeDevicePath(c.Playlist.MusicDestination)

	var err error
	c.Playlist.DeviceRoot = strings.TrimSpace(c.Playlist.DeviceRoot)
	if c.Playlist.DeviceRoot != "" {
		if c.Playlist.DeviceRoot, err = expandPath(c.Playlist.DeviceRoot); err != nil {
			return fmt.Errorf("playlist.device_root: %w", err)
		}
	}

	// Relative playlist destinations stay relative so they resolve under the
	// device root at generation time.
	dest := strings.TrimSpace(c.Playlist.PlaylistDestination)
	if dest != "" && (filepath.IsAbs(dest) || strings.HasPrefix(dest, "~")) {
		if dest, err = expandPath(dest); err != nil {
			return fmt.Errorf("playlist.playlist_destination: %w", err)
		}
	}
	c.Playlist.PlaylistDestination = dest
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("IRIVERPLA_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// NormalizeDevicePath converts a player-side folder to the backslash form
// written into playlists and drops any trailing separator.
func NormalizeDevicePath(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "/", `\`)
	return strings.TrimRight(value, `\`)
}
