package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/queue"
	"github.com/orifkhon/music-catalog-api/internal/repository"
	"github.com/orifkhon/music-catalog-api/internal/view"
)

// SongHandler exposes CRUD over the songs resource, the ?search= filter
// across title/album/artist/genre, and the increase-play action.
type SongHandler struct {
	Songs SongStore
	// Publisher may be nil when the broker is not configured; play events
	// are then skipped.
	Publisher PlayPublisher
}

func NewSongHandler(songs SongStore, pub PlayPublisher) *SongHandler {
	return &SongHandler{Songs: songs, Publisher: pub}
}

// List handles GET /v1/songs with optional ?search=.
func (h *SongHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Songs.Search(ctx, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out, err := songViews(ctx, h.Songs, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/songs/:id.
func (h *SongHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	s, err := h.Songs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	v, err := songView(ctx, h.Songs, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}

// Create handles POST /v1/songs. Relation ids that do not resolve to
// existing rows come back as per-field validation errors.
func (h *SongHandler) Create(c echo.Context) error {
	var in view.SongInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	s := &model.Song{
		Title:     in.Title,
		Duration:  uint32(in.Duration),
		URL:       in.URL,
		Thumbnail: in.Thumbnail,
	}
	rel := repository.SongRelations{
		GenreIDs:  orEmpty(in.GenreIDs),
		AlbumIDs:  orEmpty(in.AlbumIDs),
		ArtistIDs: orEmpty(in.ArtistIDs),
	}
	ctx := c.Request().Context()
	if err := h.Songs.Create(ctx, s, rel); err != nil {
		if errs, ok := relationFieldErrors(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create song failed"})
	}
	v, err := songView(ctx, h.Songs, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, v)
}

// Update handles PUT /v1/songs/:id; the full write shape replaces every
// mutable column and all three relation sets.
func (h *SongHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var in view.SongInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	s := &model.Song{
		ID:        id,
		Title:     in.Title,
		Duration:  uint32(in.Duration),
		URL:       in.URL,
		Thumbnail: in.Thumbnail,
	}
	rel := repository.SongRelations{
		GenreIDs:  orEmpty(in.GenreIDs),
		AlbumIDs:  orEmpty(in.AlbumIDs),
		ArtistIDs: orEmpty(in.ArtistIDs),
	}
	return h.saveSong(c, s, rel)
}

// Patch handles PATCH /v1/songs/:id; absent fields and nil relation lists
// are left untouched.
func (h *SongHandler) Patch(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var p view.SongPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := p.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	ctx := c.Request().Context()
	s, err := h.Songs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	p.Apply(s)
	rel := repository.SongRelations{
		GenreIDs:  p.GenreIDs,
		AlbumIDs:  p.AlbumIDs,
		ArtistIDs: p.ArtistIDs,
	}
	return h.saveSong(c, s, rel)
}

func (h *SongHandler) saveSong(c echo.Context, s *model.Song, rel repository.SongRelations) error {
	ctx := c.Request().Context()
	if err := h.Songs.Update(ctx, s, rel); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		if errs, ok := relationFieldErrors(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	fresh, err := h.Songs.GetByID(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	v, err := songView(ctx, h.Songs, fresh)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /v1/songs/:id.
func (h *SongHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Songs.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// IncreasePlay handles POST /v1/songs/:id/increase-play. The counter moves
// by exactly one per call through an atomic relative update; a play event is
// published best effort afterwards.
func (h *SongHandler) IncreasePlay(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	count, err := h.Songs.IncrementPlay(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "song not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if h.Publisher != nil {
		s, err := h.Songs.GetByID(ctx, id)
		title := ""
		if err == nil {
			title = s.Title
		}
		// Publish failures are logged by the publisher and never fail the request.
		_ = h.Publisher.PublishSongPlayed(ctx, queue.SongPlayedEvent{
			EventID:   uuid.NewString(),
			SongID:    id,
			Title:     title,
			PlayCount: count,
			PlayedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "play count increased"})
}

// orEmpty turns a nil id list into an empty one so create semantics are
// "absent list means empty set" while patch keeps nil as "leave unchanged".
func orEmpty(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}

// relationFieldErrors maps unresolved relation sentinels onto the write
// field that caused them.
func relationFieldErrors(err error) (view.FieldErrors, bool) {
	switch {
	case errors.Is(err, repository.ErrGenreNotFound):
		return view.FieldErrors{"genre_ids": "unknown genre"}, true
	case errors.Is(err, repository.ErrAlbumNotFound):
		return view.FieldErrors{"albums_ids": "unknown album"}, true
	case errors.Is(err, repository.ErrUserNotFound):
		return view.FieldErrors{"artists_ids": "unknown artist"}, true
	case errors.Is(err, repository.ErrUnknownRelation):
		return view.FieldErrors{"relations": "unknown related row"}, true
	}
	return nil, false
}
