package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"iriverpla/internal/playlist"
)

// Summary describes a stored playlist without its entries.
type Summary struct {
	Name                string    `json:"name"`
	MusicDestination    string    `json:"music_destination"`
	PlaylistDestination string    `json:"playlist_destination"`
	PreserveFolder      bool      `json:"preserve_folder"`
	DeviceRoot          string    `json:"device_root,omitempty"`
	Entries             int       `json:"entries"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	LastGeneratedAt     time.Time `json:"last_generated_at,omitzero"`
	LastSongCount       int       `json:"last_song_count"`
}

// Key returns the name a playlist is stored under: its file name with the
// .pla suffix enforced.
func Key(name string) string {
	p := playlist.Playlist{Name: name}
	return p.FileName()
}

// Save inserts or replaces the playlist stored under p's name.
func (s *Store) Save(ctx context.Context, p *playlist.Playlist) error {
	if p == nil {
		return errors.New("playlist is nil")
	}
	name := Key(p.Name)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO playlists (
            name, music_destination, playlist_destination, preserve_folder,
            device_root, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            music_destination = excluded.music_destination,
            playlist_destination = excluded.playlist_destination,
            preserve_folder = excluded.preserve_folder,
            device_root = excluded.device_root,
            updated_at = excluded.updated_at`,
		name,
		p.MusicDestination,
		p.PlaylistDestination,
		boolToInt(p.PreserveFolder),
		p.DeviceRoot,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert playlist: %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM playlists WHERE name = ?`, name).Scan(&id); err != nil {
		return fmt.Errorf("lookup playlist id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_entries WHERE playlist_id = ?`, id); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO playlist_entries (playlist_id, position, path) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()
	for i, entry := range p.Entries() {
		if _, err := stmt.ExecContext(ctx, id, i, entry); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit playlist: %w", err)
	}
	return nil
}

// Load returns the playlist stored under name, or ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (*playlist.Playlist, error) {
	key := Key(name)
	var (
		id       int64
		preserve int
		p        = playlist.New()
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, music_destination, playlist_destination, preserve_folder, device_root
         FROM playlists WHERE name = ?`, key,
	).Scan(&id, &p.Name, &p.MusicDestination, &p.PlaylistDestination, &preserve, &p.DeviceRoot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("load playlist: %w", err)
	}
	p.PreserveFolder = preserve != 0

	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM playlist_entries WHERE playlist_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()
	var entries []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	p.SetFiles(entries)
	return p, nil
}

// List returns every stored playlist ordered by name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.name, p.music_destination, p.playlist_destination, p.preserve_folder,
                p.device_root, p.created_at, p.updated_at, p.last_generated_at, p.last_song_count,
                (SELECT COUNT(1) FROM playlist_entries e WHERE e.playlist_id = p.id)
         FROM playlists p ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			sum              Summary
			preserve         int
			created, updated string
			generated        sql.NullString
		)
		if err := rows.Scan(&sum.Name, &sum.MusicDestination, &sum.PlaylistDestination, &preserve,
			&sum.DeviceRoot, &created, &updated, &generated, &sum.LastSongCount, &sum.Entries); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		sum.PreserveFolder = preserve != 0
		sum.CreatedAt = parseTime(created)
		sum.UpdatedAt = parseTime(updated)
		if generated.Valid {
			sum.LastGeneratedAt = parseTime(generated.String)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Delete removes the playlist stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	key := Key(name)
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE name = ?`, key)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

// RecordGeneration stores the time and song count of a successful run.
func (s *Store) RecordGeneration(ctx context.Context, name string, songs int, at time.Time) error {
	key := Key(name)
	res, err := s.db.ExecContext(ctx,
		`UPDATE playlists SET last_generated_at = ?, last_song_count = ? WHERE name = ?`,
		at.UTC().Format(time.RFC3339Nano), songs, key)
	if err != nil {
		return fmt.Errorf("record generation: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
