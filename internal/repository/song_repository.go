package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// SongRepo encapsulates all database queries related to songs and their
// many-to-many links to genres, albums and artists.
type SongRepo struct {
	db *sql.DB
}

// NewSongRepo constructs a SongRepo with the provided DB handle.
func NewSongRepo(db *sql.DB) *SongRepo {
	return &SongRepo{db: db}
}

// SongRelations carries the id sets written alongside a song. A nil slice
// leaves the corresponding link table untouched; an empty non-nil slice
// clears it.
type SongRelations struct {
	GenreIDs  []uint64
	AlbumIDs  []uint64
	ArtistIDs []uint64
}

// relationErr maps a foreign-key violation on one of the song link tables to
// the sentinel for the missing related row.
func relationErr(err error) error {
	if !isFKViolation(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "fk_song_genres_genre"):
		return ErrGenreNotFound
	case strings.Contains(msg, "fk_song_albums_album"):
		return ErrAlbumNotFound
	case strings.Contains(msg, "fk_song_artists_user"):
		return ErrUserNotFound
	}
	return ErrUnknownRelation
}

// Create inserts a song and its relation sets in one transaction.
func (r *SongRepo) Create(ctx context.Context, s *model.Song, rel SongRelations) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO songs (title, duration, url, thumbnail) VALUES (?,?,?,?)",
		s.Title, s.Duration, nullable(s.URL), nullable(s.Thumbnail))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	if err := writeRelations(ctx, tx, s.ID, rel); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the song columns and, for every non-nil slice in rel,
// replaces the corresponding link table contents. Runs in one transaction.
func (r *SongRepo) Update(ctx context.Context, s *model.Song, rel SongRelations) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE songs SET title = ?, duration = ?, url = ?, thumbnail = ? WHERE id = ?",
		s.Title, s.Duration, nullable(s.URL), nullable(s.Thumbnail), s.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		// Verify the row exists; zero affected also happens on no-op updates.
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM songs WHERE id = ?", s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSongNotFound
			}
			return err
		}
	}

	if err := writeRelations(ctx, tx, s.ID, rel); err != nil {
		return err
	}
	return tx.Commit()
}

// writeRelations replaces the link-table rows for each non-nil id set.
func writeRelations(ctx context.Context, tx *sql.Tx, songID uint64, rel SongRelations) error {
	if rel.GenreIDs != nil {
		if err := replaceLinks(ctx, tx, "song_genres", "genre_id", songID, rel.GenreIDs); err != nil {
			return relationErr(err)
		}
	}
	if rel.AlbumIDs != nil {
		if err := replaceLinks(ctx, tx, "song_albums", "album_id", songID, rel.AlbumIDs); err != nil {
			return relationErr(err)
		}
	}
	if rel.ArtistIDs != nil {
		if err := replaceLinks(ctx, tx, "song_artists", "user_id", songID, rel.ArtistIDs); err != nil {
			return relationErr(err)
		}
	}
	return nil
}

// replaceLinks clears and refills one song link table inside the transaction.
// Inserts run without IGNORE so a missing parent row raises error 1452
// instead of being downgraded to a warning; duplicate input ids are
// collapsed up front so the plain INSERT cannot trip the primary key.
func replaceLinks(ctx context.Context, tx *sql.Tx, table, column string, songID uint64, ids []uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE song_id = ?", songID); err != nil {
		return err
	}
	for _, id := range dedupeIDs(ids) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (song_id, "+column+") VALUES (?,?)", songID, id); err != nil {
			return err
		}
	}
	return nil
}

// dedupeIDs returns ids with duplicates removed, first occurrence wins.
func dedupeIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// GetByID fetches a song by id. Returns ErrSongNotFound if no row exists.
func (r *SongRepo) GetByID(ctx context.Context, id uint64) (*model.Song, error) {
	const q = `SELECT id, title, duration, COALESCE(url,''), COALESCE(thumbnail,''), play_count
	           FROM songs WHERE id = ?`
	s := new(model.Song)
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.Title, &s.Duration, &s.URL, &s.Thumbnail, &s.PlayCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return s, nil
}

// Delete removes a song together with its link rows (cascade).
func (r *SongRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSongNotFound
	}
	return nil
}

// IncrementPlay adds exactly one to the song's play counter with a single
// relative UPDATE, so concurrent calls never lose increments. It returns the
// counter value observed right after the update.
func (r *SongRepo) IncrementPlay(ctx context.Context, id uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE songs SET play_count = play_count + 1 WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrSongNotFound
	}
	var count uint64
	if err := r.db.QueryRowContext(ctx,
		"SELECT play_count FROM songs WHERE id = ?", id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Genres returns the genres linked to a song ordered by genre id.
func (r *SongRepo) Genres(ctx context.Context, songID uint64) ([]model.Genre, error) {
	const q = `SELECT g.id, g.name FROM genres g
	           JOIN song_genres sg ON sg.genre_id = g.id
	           WHERE sg.song_id = ? ORDER BY g.id`
	rows, err := r.db.QueryContext(ctx, q, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Albums returns the albums a song belongs to ordered by album id.
func (r *SongRepo) Albums(ctx context.Context, songID uint64) ([]model.Album, error) {
	const q = `SELECT a.id, a.title, a.release_date, COALESCE(a.poster,''), a.creator_id
	           FROM albums a
	           JOIN song_albums sa ON sa.album_id = a.id
	           WHERE sa.song_id = ? ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, q, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Album, 0)
	for rows.Next() {
		var a model.Album
		if err := rows.Scan(&a.ID, &a.Title, &a.ReleaseDate, &a.Poster, &a.CreatorID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Artists returns the users linked to a song as performers.
func (r *SongRepo) Artists(ctx context.Context, songID uint64) ([]*model.User, error) {
	q := "SELECT " + userColumns + ` FROM users u
	     JOIN roles r ON r.id = u.role_id
	     JOIN song_artists sa ON sa.user_id = u.id
	     WHERE sa.song_id = ? ORDER BY u.id`
	rows, err := r.db.QueryContext(ctx, q, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ListByArtist returns the songs a user performs on, ordered by song id.
func (r *SongRepo) ListByArtist(ctx context.Context, userID uint64) ([]*model.Song, error) {
	const q = `SELECT s.id, s.title, s.duration, COALESCE(s.url,''), COALESCE(s.thumbnail,''), s.play_count
	           FROM songs s
	           JOIN song_artists sa ON sa.song_id = s.id
	           WHERE sa.user_id = ? ORDER BY s.id`
	return r.query(ctx, q, userID)
}

// ListByGenre returns up to limit songs linked to the genre, ordered by id.
func (r *SongRepo) ListByGenre(ctx context.Context, genreID uint64, limit int) ([]*model.Song, error) {
	const q = `SELECT s.id, s.title, s.duration, COALESCE(s.url,''), COALESCE(s.thumbnail,''), s.play_count
	           FROM songs s
	           JOIN song_genres sg ON sg.song_id = s.id
	           WHERE sg.genre_id = ? ORDER BY s.id LIMIT ?`
	return r.query(ctx, q, genreID, limit)
}

// TopByPlayCount returns up to limit songs with the highest play counters,
// descending.
func (r *SongRepo) TopByPlayCount(ctx context.Context, limit int) ([]*model.Song, error) {
	const q = `SELECT id, title, duration, COALESCE(url,''), COALESCE(thumbnail,''), play_count
	           FROM songs ORDER BY play_count DESC, id LIMIT ?`
	return r.query(ctx, q, limit)
}

func (r *SongRepo) query(ctx context.Context, q string, args ...any) ([]*model.Song, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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
