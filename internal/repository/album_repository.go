package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// AlbumRepo encapsulates all database queries related to albums and album
// song membership.
type AlbumRepo struct {
	db *sql.DB
}

// NewAlbumRepo constructs an AlbumRepo with the provided DB handle.
func NewAlbumRepo(db *sql.DB) *AlbumRepo {
	return &AlbumRepo{db: db}
}

const albumColumns = "id, title, release_date, COALESCE(poster,''), creator_id"

// Create inserts a new album. release_date is filled by the database at
// insert time and never written by the application afterwards. An unknown
// creator_id maps to ErrUserNotFound.
func (r *AlbumRepo) Create(ctx context.Context, a *model.Album) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO albums (title, poster, creator_id) VALUES (?,?,?)",
		a.Title, nullable(a.Poster), a.CreatorID)
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
	a.ID = uint64(id)

	// Follow-up SELECT to pick up the DB-generated release_date.
	fresh, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

// GetByID fetches an album by id. Returns ErrAlbumNotFound if no row exists.
func (r *AlbumRepo) GetByID(ctx context.Context, id uint64) (*model.Album, error) {
	a := new(model.Album)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+albumColumns+" FROM albums WHERE id = ?", id).
		Scan(&a.ID, &a.Title, &a.ReleaseDate, &a.Poster, &a.CreatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns all albums ordered by id.
func (r *AlbumRepo) List(ctx context.Context) ([]*model.Album, error) {
	return r.query(ctx, "SELECT "+albumColumns+" FROM albums ORDER BY id")
}

// ListByCreator returns the albums created by one user, ordered by id.
func (r *AlbumRepo) ListByCreator(ctx context.Context, creatorID uint64) ([]*model.Album, error) {
	return r.query(ctx, "SELECT "+albumColumns+" FROM albums WHERE creator_id = ? ORDER BY id", creatorID)
}

// IDs returns every album id. The landing page samples from this set in
// process so the pick is uniform without replacement.
func (r *AlbumRepo) IDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM albums ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Update rewrites title, poster and creator. release_date is immutable.
func (r *AlbumRepo) Update(ctx context.Context, a *model.Album) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE albums SET title = ?, poster = ?, creator_id = ? WHERE id = ?",
		a.Title, nullable(a.Poster), a.CreatorID, a.ID)
	if err != nil {
		if isFKViolation(err) {
			return ErrUserNotFound
		}
		return err
	}
	fresh, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

// Delete removes an album; song memberships vanish through the cascade.
func (r *AlbumRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM albums WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// AddSong links a song to the album. The insert is idempotent: adding a song
// that is already a member succeeds without creating a duplicate row, and the
// composite primary key makes the check-and-insert atomic. An unknown song
// id maps to ErrSongNotFound.
func (r *AlbumRepo) AddSong(ctx context.Context, albumID, songID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO song_albums (song_id, album_id) VALUES (?,?)", songID, albumID)
	if err != nil {
		if isFKViolation(err) {
			return ErrSongNotFound
		}
		return err
	}
	return nil
}

// RemoveSong unlinks a song from the album. Removing a song that is not a
// member returns ErrNotMember; a race between two removals yields at worst a
// duplicate ErrNotMember, never a corrupted set.
func (r *AlbumRepo) RemoveSong(ctx context.Context, albumID, songID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM song_albums WHERE song_id = ? AND album_id = ?", songID, albumID)
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

// Songs returns the songs on the album ordered by song id.
func (r *AlbumRepo) Songs(ctx context.Context, albumID uint64) ([]*model.Song, error) {
	const q = `SELECT s.id, s.title, s.duration, COALESCE(s.url,''), COALESCE(s.thumbnail,''), s.play_count
	           FROM songs s
	           JOIN song_albums sa ON sa.song_id = s.id
	           WHERE sa.album_id = ? ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, albumID)
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

func (r *AlbumRepo) query(ctx context.Context, q string, args ...any) ([]*model.Album, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Album, 0)
	for rows.Next() {
		a := new(model.Album)
		if err := rows.Scan(&a.ID, &a.Title, &a.ReleaseDate, &a.Poster, &a.CreatorID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByIDs returns the albums with the given ids, in id order. Used by the
// landing page after sampling.
func (r *AlbumRepo) ListByIDs(ctx context.Context, ids []uint64) ([]*model.Album, error) {
	if len(ids) == 0 {
		return []*model.Album{}, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := "SELECT " + albumColumns + " FROM albums WHERE id IN (" +
		strings.Join(placeholders, ",") + ") ORDER BY id"
	return r.query(ctx, q, args...)
}
