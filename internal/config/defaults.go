package config

const (
	defaultStateDir            = "~/.local/share/iriverpla"
	defaultLogDir              = "~/.local/share/iriverpla/logs"
	defaultPlaylistName        = "playlist.pla"
	defaultMusicDestination    = `\Music`
	defaultPlaylistDestination = "Playlists"
	defaultPreserveFolder      = true
	defaultNotifyTimeout       = 10
	defaultSettleSeconds       = 3
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Playlist: Playlist{
			Name:                defaultPlaylistName,
			MusicDestination:    defaultMusicDestination,
			PlaylistDestination: defaultPlaylistDestination,
			PreserveFolder:      defaultPreserveFolder,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Ready:          true,
			Errors:         true,
		},
		Device: Device{
			SettleSeconds: defaultSettleSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
