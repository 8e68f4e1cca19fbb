package model

// Song represents a track in the catalog. The many-to-many links to genres,
// albums and artists live in the song_genres, song_albums and song_artists
// join tables and are loaded separately by the repository.
//
// Fields:
//
//	ID        – primary key identifier.
//	Title     – track title.
//	Duration  – length in whole seconds (never negative).
//	URL       – opaque path to the media file.
//	Thumbnail – opaque path to the thumbnail image.
//	PlayCount – number of times the track was played; only ever incremented.
type Song struct {
	ID        uint64 // songs.id
	Title     string // songs.title
	Duration  uint32 // songs.duration (seconds)
	URL       string // songs.url
	Thumbnail string // songs.thumbnail
	PlayCount uint64 // songs.play_count
}

// Genre represents a row in the `genres` table.
type Genre struct {
	ID   uint64 `json:"id"`   // genres.id
	Name string `json:"name"` // genres.name
}
