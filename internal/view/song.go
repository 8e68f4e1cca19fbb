package view

import (
	"math"
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// ArtistRef is the minimal artist tag carried inside SongMini.
type ArtistRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// SongMini is the song shape embedded in album and playlist payloads. It
// skips the song's own album list so Album -> songs -> albums cannot recurse.
type SongMini struct {
	ID        uint64      `json:"id"`
	Title     string      `json:"title"`
	Duration  uint32      `json:"duration"`
	Artist    []ArtistRef `json:"artist"`
	URL       string      `json:"url"`
	Thumbnail string      `json:"thumbnail"`
}

// AlbumMini is the album shape embedded in song payloads, for the same
// cycle-breaking reason.
type AlbumMini struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// Song is the full read shape of the songs resource with every relation
// nested as objects.
type Song struct {
	ID        uint64       `json:"id"`
	Title     string       `json:"title"`
	Duration  uint32       `json:"duration"`
	URL       string       `json:"url"`
	Thumbnail string       `json:"thumbnail"`
	PlayCount uint64       `json:"play_count"`
	Genres    []model.Genre `json:"genre"`
	Albums    []AlbumMini  `json:"albums"`
	Artists   []UserPublic `json:"artists"`
}

// NewSongMini builds the embedded song shape. Artist display names fall back
// to the username when no fullname is set.
func NewSongMini(s *model.Song, artists []*model.User) SongMini {
	refs := make([]ArtistRef, 0, len(artists))
	for _, a := range artists {
		name := a.Fullname
		if name == "" {
			name = a.Username
		}
		refs = append(refs, ArtistRef{ID: a.ID, Name: name})
	}
	return SongMini{
		ID:        s.ID,
		Title:     s.Title,
		Duration:  s.Duration,
		Artist:    refs,
		URL:       s.URL,
		Thumbnail: s.Thumbnail,
	}
}

// NewSong builds the full read shape from a song and its loaded relations.
func NewSong(s *model.Song, genres []model.Genre, albums []model.Album, artists []*model.User) Song {
	minis := make([]AlbumMini, 0, len(albums))
	for _, a := range albums {
		minis = append(minis, AlbumMini{ID: a.ID, Title: a.Title})
	}
	pubs := make([]UserPublic, 0, len(artists))
	for _, u := range artists {
		pubs = append(pubs, NewUserPublic(u))
	}
	if genres == nil {
		genres = []model.Genre{}
	}
	return Song{
		ID:        s.ID,
		Title:     s.Title,
		Duration:  s.Duration,
		URL:       s.URL,
		Thumbnail: s.Thumbnail,
		PlayCount: s.PlayCount,
		Genres:    genres,
		Albums:    minis,
		Artists:   pubs,
	}
}

// SongInput is the write shape for creating or fully updating a song.
// Relations arrive as flat id lists; a missing list means an empty set on
// create and "leave as is" on patch.
type SongInput struct {
	Title     string   `json:"title"`
	Duration  int64    `json:"duration"`
	URL       string   `json:"url"`
	Thumbnail string   `json:"thumbnail"`
	GenreIDs  []uint64 `json:"genre_ids"`
	AlbumIDs  []uint64 `json:"albums_ids"`
	ArtistIDs []uint64 `json:"artists_ids"`
}

// maxDuration caps the duration payload at what the unsigned 32-bit column
// holds, so out-of-range values fail validation instead of wrapping.
const maxDuration = math.MaxUint32

// Validate checks required fields and the duration range invariant.
func (in *SongInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = msgRequired
	}
	if in.Duration < 0 {
		errs["duration"] = "must not be negative"
	} else if in.Duration > maxDuration {
		errs["duration"] = "out of range"
	}
	return errs
}

// SongPatch is the partial-update shape; only non-nil fields are applied.
type SongPatch struct {
	Title     *string  `json:"title"`
	Duration  *int64   `json:"duration"`
	URL       *string  `json:"url"`
	Thumbnail *string  `json:"thumbnail"`
	GenreIDs  []uint64 `json:"genre_ids"`
	AlbumIDs  []uint64 `json:"albums_ids"`
	ArtistIDs []uint64 `json:"artists_ids"`
}

// Validate rejects fields that are present but out of range.
func (p *SongPatch) Validate() FieldErrors {
	errs := FieldErrors{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs["title"] = "must not be blank"
	}
	if p.Duration != nil {
		if *p.Duration < 0 {
			errs["duration"] = "must not be negative"
		} else if *p.Duration > maxDuration {
			errs["duration"] = "out of range"
		}
	}
	return errs
}

// Apply copies the present scalar fields onto the loaded song.
func (p *SongPatch) Apply(s *model.Song) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Duration != nil {
		s.Duration = uint32(*p.Duration)
	}
	if p.URL != nil {
		s.URL = *p.URL
	}
	if p.Thumbnail != nil {
		s.Thumbnail = *p.Thumbnail
	}
}
