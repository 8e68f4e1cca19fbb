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

// PlaylistHandler exposes CRUD over the playlists resource plus the
// add-song and remove-song membership actions.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Users     UserStore
	Songs     SongStore
}

func NewPlaylistHandler(playlists PlaylistStore, users UserStore, songs SongStore) *PlaylistHandler {
	return &PlaylistHandler{Playlists: playlists, Users: users, Songs: songs}
}

func playlistView(ctx context.Context, playlists PlaylistStore, users UserStore, songs SongStore, p *model.Playlist) (view.Playlist, error) {
	owner, err := users.GetByID(ctx, p.OwnerID)
	if err != nil {
		return view.Playlist{}, err
	}
	tracks, err := playlists.Songs(ctx, p.ID)
	if err != nil {
		return view.Playlist{}, err
	}
	minis, err := songMinis(ctx, songs, tracks)
	if err != nil {
		return view.Playlist{}, err
	}
	return view.NewPlaylist(p, owner, minis), nil
}

func (h *PlaylistHandler) render(c echo.Context, status int, p *model.Playlist) error {
	v, err := playlistView(c.Request().Context(), h.Playlists, h.Users, h.Songs, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(status, v)
}

// List handles GET /v1/playlists.
func (h *PlaylistHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Playlists.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]view.Playlist, 0, len(items))
	for _, p := range items {
		v, err := playlistView(ctx, h.Playlists, h.Users, h.Songs, p)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		out = append(out, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/playlists/:id.
func (h *PlaylistHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Playlists.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "playlist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return h.render(c, http.StatusOK, p)
}

// Create handles POST /v1/playlists. The song_id list seeds the initial
// membership in the same transaction as the insert.
func (h *PlaylistHandler) Create(c echo.Context) error {
	var in view.PlaylistInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	p := &model.Playlist{Name: in.Name, Poster: in.Poster, OwnerID: in.OwnerID}
	if err := h.Playlists.Create(c.Request().Context(), p, orEmpty(in.SongIDs)); err != nil {
		if errs, bad := playlistFieldErrors(err); bad {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create playlist failed"})
	}
	return h.render(c, http.StatusCreated, p)
}

// Update handles PUT /v1/playlists/:id. A full update always rewrites the
// membership set; an absent song_id clears it.
func (h *PlaylistHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var in view.PlaylistInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	p, err := h.Playlists.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "playlist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	p.Name = in.Name
	p.Poster = in.Poster
	p.OwnerID = in.OwnerID
	return h.savePlaylist(c, p, orEmpty(in.SongIDs))
}

// Patch handles PATCH /v1/playlists/:id. A nil song_id leaves the
// membership untouched.
func (h *PlaylistHandler) Patch(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var patch view.PlaylistPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := patch.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	p, err := h.Playlists.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "playlist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	patch.Apply(p)
	return h.savePlaylist(c, p, patch.SongIDs)
}

func (h *PlaylistHandler) savePlaylist(c echo.Context, p *model.Playlist, songIDs []uint64) error {
	if err := h.Playlists.Update(c.Request().Context(), p, songIDs); err != nil {
		if errs, bad := playlistFieldErrors(err); bad {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return h.render(c, http.StatusOK, p)
}

// playlistFieldErrors maps relation sentinels from playlist writes onto the
// input fields that caused them.
func playlistFieldErrors(err error) (view.FieldErrors, bool) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return view.FieldErrors{"user_id": "unknown user"}, true
	case errors.Is(err, repository.ErrSongNotFound):
		return view.FieldErrors{"song_id": "unknown song"}, true
	}
	return nil, false
}

// Delete handles DELETE /v1/playlists/:id.
func (h *PlaylistHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Playlists.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "playlist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AddSong handles POST /v1/playlists/:id/add-song. Re-adding a song that is
// already on the playlist succeeds without duplicating the link.
func (h *PlaylistHandler) AddSong(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body songIDBody
	if err := c.Bind(&body); err != nil || body.SongID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "song_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Playlists.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "playlist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if _, err := h.Songs.GetByID(ctx, body.SongID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Playlists.AddSong(ctx, id, body.SongID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add song failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "song added to playlist"})
}

// RemoveSong handles POST /v1/playlists/:id/remove-song.
func (h *PlaylistHandler) RemoveSong(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body songIDBody
	if err := c.Bind(&body); err != nil || body.SongID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "song_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Playlists.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "playlist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if _, err := h.Songs.GetByID(ctx, body.SongID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Playlists.RemoveSong(ctx, id, body.SongID); err != nil {
		if errors.Is(err, repository.ErrNotMember) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "song is not in this playlist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove song failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "song removed from playlist"})
}
