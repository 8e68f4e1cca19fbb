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

// AlbumHandler exposes CRUD over the albums resource plus the add-song and
// remove-song membership actions.
type AlbumHandler struct {
	Albums AlbumStore
	Users  UserStore
	Songs  SongStore
}

func NewAlbumHandler(albums AlbumStore, users UserStore, songs SongStore) *AlbumHandler {
	return &AlbumHandler{Albums: albums, Users: users, Songs: songs}
}

// albumView assembles the album read shape: nested creator profile and
// embedded song minis.
func albumView(ctx context.Context, albums AlbumStore, users UserStore, songs SongStore, a *model.Album) (view.Album, error) {
	creator, err := users.GetByID(ctx, a.CreatorID)
	if err != nil {
		return view.Album{}, err
	}
	tracks, err := albums.Songs(ctx, a.ID)
	if err != nil {
		return view.Album{}, err
	}
	minis, err := songMinis(ctx, songs, tracks)
	if err != nil {
		return view.Album{}, err
	}
	return view.NewAlbum(a, creator, minis), nil
}

func (h *AlbumHandler) render(c echo.Context, status int, a *model.Album) error {
	v, err := albumView(c.Request().Context(), h.Albums, h.Users, h.Songs, a)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(status, v)
}

// List handles GET /v1/albums.
func (h *AlbumHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Albums.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]view.Album, 0, len(items))
	for _, a := range items {
		v, err := albumView(ctx, h.Albums, h.Users, h.Songs, a)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		out = append(out, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/albums/:id.
func (h *AlbumHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Albums.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "album not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return h.render(c, http.StatusOK, a)
}

// Create handles POST /v1/albums. release_date is set by the store at
// insert time and never writable.
func (h *AlbumHandler) Create(c echo.Context) error {
	var in view.AlbumInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	a := &model.Album{Title: in.Title, Poster: in.Poster, CreatorID: in.CreatorID}
	if err := h.Albums.Create(c.Request().Context(), a); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": view.FieldErrors{"creator_id": "unknown user"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create album failed"})
	}
	return h.render(c, http.StatusCreated, a)
}

// Update handles PUT /v1/albums/:id.
func (h *AlbumHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var in view.AlbumInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	a, err := h.Albums.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "album not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	a.Title = in.Title
	a.Poster = in.Poster
	a.CreatorID = in.CreatorID
	return h.saveAlbum(c, a)
}

// Patch handles PATCH /v1/albums/:id.
func (h *AlbumHandler) Patch(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var p view.AlbumPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := p.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	a, err := h.Albums.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "album not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	p.Apply(a)
	return h.saveAlbum(c, a)
}

func (h *AlbumHandler) saveAlbum(c echo.Context, a *model.Album) error {
	if err := h.Albums.Update(c.Request().Context(), a); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": view.FieldErrors{"creator_id": "unknown user"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return h.render(c, http.StatusOK, a)
}

// Delete handles DELETE /v1/albums/:id.
func (h *AlbumHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Albums.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "album not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// songIDBody is the request body of the membership actions.
type songIDBody struct {
	SongID uint64 `json:"song_id"`
}

// AddSong handles POST /v1/albums/:id/add-song. Adding a song that is
// already on the album succeeds without creating a duplicate link.
func (h *AlbumHandler) AddSong(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body songIDBody
	if err := c.Bind(&body); err != nil || body.SongID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "song_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Albums.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "album not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if _, err := h.Songs.GetByID(ctx, body.SongID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Albums.AddSong(ctx, id, body.SongID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add song failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "song added to album"})
}

// RemoveSong handles POST /v1/albums/:id/remove-song. Removing a song that
// is not on the album is rejected with a descriptive 400.
func (h *AlbumHandler) RemoveSong(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body songIDBody
	if err := c.Bind(&body); err != nil || body.SongID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "song_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Albums.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "album not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if _, err := h.Songs.GetByID(ctx, body.SongID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Albums.RemoveSong(ctx, id, body.SongID); err != nil {
		if errors.Is(err, repository.ErrNotMember) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "song is not in this album"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove song failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "song removed from album"})
}
