package view

import (
	"strings"

	"github.com/orifkhon/music-catalog-api/internal/model"
)

// Playlist is the full read shape of the playlists resource.
type Playlist struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt string     `json:"created_at"`
	Poster    string     `json:"poster"`
	Owner     UserPublic `json:"user"`
	Songs     []SongMini `json:"songs"`
}

// NewPlaylist builds the read shape from a loaded playlist, its owner and
// its song minis.
func NewPlaylist(p *model.Playlist, owner *model.User, songs []SongMini) Playlist {
	if songs == nil {
		songs = []SongMini{}
	}
	return Playlist{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: formatDate(p.CreatedAt),
		Poster:    p.Poster,
		Owner:     NewUserPublic(owner),
		Songs:     songs,
	}
}

// PlaylistInput is the write shape for creating or fully updating a
// playlist. Songs arrive as a flat id list under song_id.
type PlaylistInput struct {
	Name    string   `json:"name"`
	Poster  string   `json:"poster"`
	OwnerID uint64   `json:"user_id"`
	SongIDs []uint64 `json:"song_id"`
}

// Validate checks required fields.
func (in *PlaylistInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = msgRequired
	}
	if in.OwnerID == 0 {
		errs["user_id"] = msgRequired
	}
	return errs
}

// PlaylistPatch is the partial-update shape; only non-nil fields are
// applied, and a nil SongIDs leaves the membership untouched.
type PlaylistPatch struct {
	Name    *string  `json:"name"`
	Poster  *string  `json:"poster"`
	OwnerID *uint64  `json:"user_id"`
	SongIDs []uint64 `json:"song_id"`
}

// Validate rejects fields that are present but unusable.
func (p *PlaylistPatch) Validate() FieldErrors {
	errs := FieldErrors{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs["name"] = "must not be blank"
	}
	if p.OwnerID != nil && *p.OwnerID == 0 {
		errs["user_id"] = "must reference a user"
	}
	return errs
}

// Apply copies the present fields onto the loaded playlist.
func (p *PlaylistPatch) Apply(pl *model.Playlist) {
	if p.Name != nil {
		pl.Name = *p.Name
	}
	if p.Poster != nil {
		pl.Poster = *p.Poster
	}
	if p.OwnerID != nil {
		pl.OwnerID = *p.OwnerID
	}
}
