package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"iriverpla/internal/config"
	"iriverpla/internal/logging"
	"iriverpla/internal/playlist"
	"iriverpla/internal/store"
)

type commandContext struct {
	configFlag   *string
	playlistFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, playlistFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		playlistFlag: playlistFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// playlistName returns the --playlist flag or the configured default, in
// stored form.
func (c *commandContext) playlistName() string {
	if c.playlistFlag != nil {
		if name := strings.TrimSpace(*c.playlistFlag); name != "" {
			return store.Key(name)
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return playlist.DefaultName
	}
	return store.Key(cfg.Playlist.Name)
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open playlist store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

// loadPlaylist returns the selected stored playlist or, when none exists
// yet, a new one seeded from the config defaults.
func (c *commandContext) loadPlaylist(ctx context.Context, st *store.Store) (*playlist.Playlist, error) {
	name := c.playlistName()
	p, err := st.Load(ctx, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	cfg, cfgErr := c.ensureConfig()
	if cfgErr != nil {
		return nil, cfgErr
	}
	p = newPlaylistFromConfig(cfg)
	p.Name = name
	return p, nil
}

// editPlaylist loads the selected playlist, applies fn and saves the result.
func (c *commandContext) editPlaylist(ctx context.Context, fn func(*playlist.Playlist) error) (*playlist.Playlist, error) {
	var edited *playlist.Playlist
	err := c.withStore(func(st *store.Store) error {
		p, err := c.loadPlaylist(ctx, st)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := st.Save(ctx, p); err != nil {
			return err
		}
		edited = p
		return nil
	})
	return edited, err
}

func newPlaylistFromConfig(cfg *config.Config) *playlist.Playlist {
	p := playlist.New()
	p.Name = cfg.Playlist.Name
	p.MusicDestination = cfg.Playlist.MusicDestination
	p.PlaylistDestination = cfg.Playlist.PlaylistDestination
	p.PreserveFolder = cfg.Playlist.PreserveFolder
	p.DeviceRoot = cfg.Playlist.DeviceRoot
	return p
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
