package model

import "time"

// Playlist represents a record in the `playlists` table. Membership of songs
// is an unordered set kept in the playlist_songs join table.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – playlist name.
//	CreatedAt – timestamp of creation.
//	Poster    – opaque path to the poster image.
//	OwnerID   – users.id of the owning user.
type Playlist struct {
	ID        uint64    // playlists.id
	Name      string    // playlists.name
	CreatedAt time.Time // playlists.created_at
	Poster    string    // playlists.poster
	OwnerID   uint64    // playlists.owner_id
}
