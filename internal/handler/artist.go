package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/repository"
	"github.com/orifkhon/music-catalog-api/internal/view"
)

// ArtistHandler serves the read-only artists resource. An artist is a user
// with the artist role, decorated with the songs and albums they authored.
type ArtistHandler struct {
	Users  UserStore
	Songs  SongStore
	Albums AlbumStore
}

func NewArtistHandler(users UserStore, songs SongStore, albums AlbumStore) *ArtistHandler {
	return &ArtistHandler{Users: users, Songs: songs, Albums: albums}
}

func (h *ArtistHandler) artistView(ctx context.Context, u *model.User) (view.Artist, error) {
	albums, err := h.Albums.ListByCreator(ctx, u.ID)
	if err != nil {
		return view.Artist{}, err
	}
	albumViews := make([]view.Album, 0, len(albums))
	for _, a := range albums {
		v, err := albumView(ctx, h.Albums, h.Users, h.Songs, a)
		if err != nil {
			return view.Artist{}, err
		}
		albumViews = append(albumViews, v)
	}
	songs, err := h.Songs.ListByArtist(ctx, u.ID)
	if err != nil {
		return view.Artist{}, err
	}
	sv, err := songViews(ctx, h.Songs, songs)
	if err != nil {
		return view.Artist{}, err
	}
	return view.NewArtist(u, albumViews, sv), nil
}

// List handles GET /v1/artists. The optional search query filters on
// username and fullname.
func (h *ArtistHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.Users.ListByRole(ctx, model.RoleArtist, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]view.Artist, 0, len(users))
	for _, u := range users {
		v, err := h.artistView(ctx, u)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		out = append(out, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/artists/:id. Users without the artist role are not
// addressable through this resource.
func (h *ArtistHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if u.RoleName != model.RoleArtist {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
	}
	v, err := h.artistView(c.Request().Context(), u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}
