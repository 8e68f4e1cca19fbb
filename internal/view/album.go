package view

import (
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// Album is the full read shape of the albums resource. The creator is nested
// as a public profile and songs are embedded as minis.
type Album struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	ReleaseDate string     `json:"release_date"`
	Poster      string     `json:"poster"`
	Creator     UserPublic `json:"creator"`
	Songs       []SongMini `json:"songs"`
}

// NewAlbum builds the read shape from a loaded album, its creator and its
// song minis.
func NewAlbum(a *model.Album, creator *model.User, songs []SongMini) Album {
	if songs == nil {
		songs = []SongMini{}
	}
	return Album{
		ID:          a.ID,
		Title:       a.Title,
		ReleaseDate: formatDate(a.ReleaseDate),
		Poster:      a.Poster,
		Creator:     NewUserPublic(creator),
		Songs:       songs,
	}
}

// AlbumInput is the write shape for creating or fully updating an album.
// release_date is deliberately absent: it is fixed at creation.
type AlbumInput struct {
	Title     string `json:"title"`
	Poster    string `json:"poster"`
	CreatorID uint64 `json:"creator_id"`
}

// Validate checks required fields.
func (in *AlbumInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = msgRequired
	}
	if in.CreatorID == 0 {
		errs["creator_id"] = msgRequired
	}
	return errs
}

// AlbumPatch is the partial-update shape; only non-nil fields are applied.
type AlbumPatch struct {
	Title     *string `json:"title"`
	Poster    *string `json:"poster"`
	CreatorID *uint64 `json:"creator_id"`
}

// Validate rejects fields that are present but unusable.
func (p *AlbumPatch) Validate() FieldErrors {
	errs := FieldErrors{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs["title"] = "must not be blank"
	}
	if p.CreatorID != nil && *p.CreatorID == 0 {
		errs["creator_id"] = "must reference a user"
	}
	return errs
}

// Apply copies the present fields onto the loaded album.
func (p *AlbumPatch) Apply(a *model.Album) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Poster != nil {
		a.Poster = *p.Poster
	}
	if p.CreatorID != nil {
		a.CreatorID = *p.CreatorID
	}
}
