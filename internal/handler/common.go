// Package handler exposes the HTTP resource handlers. Each handler depends
// on the narrow store interfaces declared here; the concrete repositories
// satisfy them, and tests substitute in-memory fakes.
package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/queue"
	"github.com/orifkhon/music-catalog-api/internal/repository"
	"github.com/orifkhon/music-catalog-api/internal/view"
)

// RoleStore is the slice of the role repository the handlers consume.
type RoleStore interface {
	Create(ctx context.Context, role *model.Role) error
	GetByID(ctx context.Context, id uint8) (*model.Role, error)
	GetByName(ctx context.Context, name string) (*model.Role, error)
	List(ctx context.Context) ([]*model.Role, error)
	UpdateName(ctx context.Context, id uint8, name string) error
	Delete(ctx context.Context, id uint8) error
}

// UserStore is the slice of the user repository the handlers consume.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, search string) ([]*model.User, error)
	ListByRole(ctx context.Context, roleName, search string) ([]*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint64) error
}

// GenreStore is the slice of the genre repository the handlers consume.
type GenreStore interface {
	Create(ctx context.Context, g *model.Genre) error
	GetByID(ctx context.Context, id uint64) (*model.Genre, error)
	List(ctx context.Context) ([]*model.Genre, error)
	UpdateName(ctx context.Context, id uint64, name string) error
	Delete(ctx context.Context, id uint64) error
}

// SongStore is the slice of the song repository the handlers consume.
type SongStore interface {
	Create(ctx context.Context, s *model.Song, rel repository.SongRelations) error
	Update(ctx context.Context, s *model.Song, rel repository.SongRelations) error
	GetByID(ctx context.Context, id uint64) (*model.Song, error)
	Delete(ctx context.Context, id uint64) error
	Search(ctx context.Context, term string) ([]*model.Song, error)
	IncrementPlay(ctx context.Context, id uint64) (uint64, error)
	Genres(ctx context.Context, songID uint64) ([]model.Genre, error)
	Albums(ctx context.Context, songID uint64) ([]model.Album, error)
	Artists(ctx context.Context, songID uint64) ([]*model.User, error)
	ListByArtist(ctx context.Context, userID uint64) ([]*model.Song, error)
	ListByGenre(ctx context.Context, genreID uint64, limit int) ([]*model.Song, error)
	TopByPlayCount(ctx context.Context, limit int) ([]*model.Song, error)
}

// AlbumStore is the slice of the album repository the handlers consume.
type AlbumStore interface {
	Create(ctx context.Context, a *model.Album) error
	GetByID(ctx context.Context, id uint64) (*model.Album, error)
	List(ctx context.Context) ([]*model.Album, error)
	ListByCreator(ctx context.Context, creatorID uint64) ([]*model.Album, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]*model.Album, error)
	IDs(ctx context.Context) ([]uint64, error)
	Update(ctx context.Context, a *model.Album) error
	Delete(ctx context.Context, id uint64) error
	AddSong(ctx context.Context, albumID, songID uint64) error
	RemoveSong(ctx context.Context, albumID, songID uint64) error
	Songs(ctx context.Context, albumID uint64) ([]*model.Song, error)
}

// PlaylistStore is the slice of the playlist repository the handlers consume.
type PlaylistStore interface {
	Create(ctx context.Context, p *model.Playlist, songIDs []uint64) error
	GetByID(ctx context.Context, id uint64) (*model.Playlist, error)
	List(ctx context.Context) ([]*model.Playlist, error)
	Update(ctx context.Context, p *model.Playlist, songIDs []uint64) error
	Delete(ctx context.Context, id uint64) error
	AddSong(ctx context.Context, playlistID, songID uint64) error
	RemoveSong(ctx context.Context, playlistID, songID uint64) error
	Songs(ctx context.Context, playlistID uint64) ([]*model.Song, error)
}

// PlayPublisher forwards play events to the message broker. Publishing is
// best effort; handlers log failures and still answer 200.
type PlayPublisher interface {
	PublishSongPlayed(ctx context.Context, ev queue.SongPlayedEvent) error
}

// getUserID extracts the user_id stored in context by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID parses the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// songView assembles the full song read shape by loading the relation sets.
func songView(ctx context.Context, st SongStore, s *model.Song) (view.Song, error) {
	genres, err := st.Genres(ctx, s.ID)
	if err != nil {
		return view.Song{}, err
	}
	albums, err := st.Albums(ctx, s.ID)
	if err != nil {
		return view.Song{}, err
	}
	artists, err := st.Artists(ctx, s.ID)
	if err != nil {
		return view.Song{}, err
	}
	return view.NewSong(s, genres, albums, artists), nil
}

// songViews maps a song list through songView.
func songViews(ctx context.Context, st SongStore, songs []*model.Song) ([]view.Song, error) {
	out := make([]view.Song, 0, len(songs))
	for _, s := range songs {
		v, err := songView(ctx, st, s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// songMinis builds the embedded song shapes for album/playlist payloads.
func songMinis(ctx context.Context, st SongStore, songs []*model.Song) ([]view.SongMini, error) {
	out := make([]view.SongMini, 0, len(songs))
	for _, s := range songs {
		artists, err := st.Artists(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, view.NewSongMini(s, artists))
	}
	return out, nil
}
