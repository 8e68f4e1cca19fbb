package repository

import (
	"context"
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// buildSongSearch assembles the WHERE clause for the song collection. A
// non-empty term matches, case-insensitively, against the song title and the
// titles/names of any linked album, artist or genre. Kept as a pure function
// so the generated SQL is unit-testable.
func buildSongSearch(term string) (string, []any) {
	base := `SELECT s.id, s.title, s.duration, COALESCE(s.url,''), COALESCE(s.thumbnail,''), s.play_count
	         FROM songs s`
	term = strings.TrimSpace(term)
	if term == "" {
		return base + " ORDER BY s.id", nil
	}
	pat := "%" + strings.ToLower(term) + "%"
	cond := `LOWER(s.title) LIKE ?
		OR EXISTS (SELECT 1 FROM song_albums sa JOIN albums a ON a.id = sa.album_id
		           WHERE sa.song_id = s.id AND LOWER(a.title) LIKE ?)
		OR EXISTS (SELECT 1 FROM song_artists sr JOIN users u ON u.id = sr.user_id
		           WHERE sr.song_id = s.id AND (LOWER(u.username) LIKE ? OR LOWER(COALESCE(u.fullname,'')) LIKE ?))
		OR EXISTS (SELECT 1 FROM song_genres sg JOIN genres g ON g.id = sg.genre_id
		           WHERE sg.song_id = s.id AND LOWER(g.name) LIKE ?)`
	return base + " WHERE " + cond + " ORDER BY s.id", []any{pat, pat, pat, pat, pat}
}

// Search returns songs matching the term across title, album, artist and
// genre; with an empty term it lists the whole collection.
func (r *SongRepo) Search(ctx context.Context, term string) ([]*model.Song, error) {
	q, args := buildSongSearch(term)
	return r.query(ctx, q, args...)
}
