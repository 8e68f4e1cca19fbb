package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// PlaylistRepo encapsulates all database queries related to playlists and
// playlist song membership.
type PlaylistRepo struct {
	db *sql.DB
}

// NewPlaylistRepo constructs a PlaylistRepo with the provided DB handle.
func NewPlaylistRepo(db *sql.DB) *PlaylistRepo {
	return &PlaylistRepo{db: db}
}

const playlistColumns = "id, name, created_at, COALESCE(poster,''), owner_id"

// Create inserts a new playlist and, when songIDs is non-nil, fills its
// membership. An unknown owner_id maps to ErrUserNotFound, an unknown song
// id to ErrSongNotFound.
func (r *PlaylistRepo) Create(ctx context.Context, p *model.Playlist, songIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO playlists (name, poster, owner_id) VALUES (?,?,?)",
		p.Name, nullable(p.Poster), p.OwnerID)
	if err != nil {
		if isFKViolation(err) {
			return ErrUserNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	if err := r.writeSongs(ctx, tx, p.ID, songIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	fresh, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

func (r *PlaylistRepo) writeSongs(ctx context.Context, tx *sql.Tx, playlistID uint64, songIDs []uint64) error {
	if songIDs == nil {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_songs WHERE playlist_id = ?", playlistID); err != nil {
		return err
	}
	// Plain INSERT so an unknown song id surfaces as a foreign-key
	// violation; IGNORE would swallow it as a warning.
	for _, sid := range dedupeIDs(songIDs) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO playlist_songs (playlist_id, song_id) VALUES (?,?)", playlistID, sid); err != nil {
			if isFKViolation(err) {
				return ErrSongNotFound
			}
			return err
		}
	}
	return nil
}

// GetByID fetches a playlist by id. Returns ErrPlaylistNotFound if missing.
func (r *PlaylistRepo) GetByID(ctx context.Context, id uint64) (*model.Playlist, error) {
	p := new(model.Playlist)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+playlistColumns+" FROM playlists WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.Poster, &p.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns all playlists ordered by id.
func (r *PlaylistRepo) List(ctx context.Context) ([]*model.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+playlistColumns+" FROM playlists ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Playlist, 0)
	for rows.Next() {
		p := new(model.Playlist)
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.Poster, &p.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites name, poster and owner and, when songIDs is non-nil,
// replaces the membership set in the same transaction.
func (r *PlaylistRepo) Update(ctx context.Context, p *model.Playlist, songIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE playlists SET name = ?, poster = ?, owner_id = ? WHERE id = ?",
		p.Name, nullable(p.Poster), p.OwnerID, p.ID); err != nil {
		if isFKViolation(err) {
			return ErrUserNotFound
		}
		return err
	}
	if err := r.writeSongs(ctx, tx, p.ID, songIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	fresh, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *fresh
	return nil
}

// Delete removes a playlist; membership rows vanish through the cascade.
func (r *PlaylistRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// AddSong links a song to the playlist; idempotent like the album variant.
func (r *PlaylistRepo) AddSong(ctx context.Context, playlistID, songID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO playlist_songs (playlist_id, song_id) VALUES (?,?)", playlistID, songID)
	if err != nil {
		if isFKViolation(err) {
			return ErrSongNotFound
		}
		return err
	}
	return nil
}

// RemoveSong unlinks a song; ErrNotMember when it was not in the playlist.
func (r *PlaylistRepo) RemoveSong(ctx context.Context, playlistID, songID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?", playlistID, songID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotMember
	}
	return nil
}

// Songs returns the songs in the playlist ordered by song id.
func (r *PlaylistRepo) Songs(ctx context.Context, playlistID uint64) ([]*model.Song, error) {
	const q = `SELECT s.id, s.title, s.duration, COALESCE(s.url,''), COALESCE(s.thumbnail,''), s.play_count
	           FROM songs s
	           JOIN playlist_songs ps ON ps.song_id = s.id
	           WHERE ps.playlist_id = ? ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Song, 0)
	for rows.Next() {
		s := new(model.Song)
		if err := rows.Scan(&s.ID, &s.Title, &s.Duration, &s.URL, &s.Thumbnail, &s.PlayCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
