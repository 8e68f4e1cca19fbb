package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/repository"
	"github.com/orifkhon/music-catalog-api/internal/view"
)

const (
	landingGenreSongs   = 10
	landingTrendingSize = 10
	landingAlbumSample  = 5
)

// LandingHandler aggregates the home-screen payload: per-genre song rails,
// the trending chart and a random album rotation.
type LandingHandler struct {
	Genres GenreStore
	Songs  SongStore
	Albums AlbumStore
	Users  UserStore
}

func NewLandingHandler(genres GenreStore, songs SongStore, albums AlbumStore, users UserStore) *LandingHandler {
	return &LandingHandler{Genres: genres, Songs: songs, Albums: albums, Users: users}
}

// genreRail is one entry of playlists_by_genre.
type genreRail struct {
	Genre model.Genre     `json:"genre"`
	Songs []view.SongMini `json:"songs"`
}

// Landing handles GET /v1/landing.
func (h *LandingHandler) Landing(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.Genres.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	rails := make([]genreRail, 0, len(genres))
	for _, g := range genres {
		songs, err := h.Songs.ListByGenre(ctx, g.ID, landingGenreSongs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		minis, err := songMinis(ctx, h.Songs, songs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		rails = append(rails, genreRail{Genre: *g, Songs: minis})
	}

	trending, err := h.Songs.TopByPlayCount(ctx, landingTrendingSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	trendingViews, err := songViews(ctx, h.Songs, trending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	ids, err := h.Albums.IDs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	sampled, err := h.Albums.ListByIDs(ctx, repository.SampleIDs(ids, landingAlbumSample))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	albumViews := make([]view.Album, 0, len(sampled))
	for _, a := range sampled {
		v, err := albumView(ctx, h.Albums, h.Users, h.Songs, a)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		albumViews = append(albumViews, v)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"playlists_by_genre": rails,
		"top_trending_songs": trendingViews,
		"random_albums":      albumViews,
	})
}
