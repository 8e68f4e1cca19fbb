package model

import "time"

// Album represents a record in the `albums` table. ReleaseDate is set by the
// database when the row is created and is never updated afterwards. Songs
// belong to albums through the song_albums join table.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – album title.
//	ReleaseDate – date the album row was created (immutable).
//	Poster      – opaque path to the poster image.
//	CreatorID   – users.id of the creating user.
type Album struct {
	ID          uint64    // albums.id
	Title       string    // albums.title
	ReleaseDate time.Time // albums.release_date
	Poster      string    // albums.poster
	CreatorID   uint64    // albums.creator_id
}
