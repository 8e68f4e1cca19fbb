package router

import (
	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/handler"
)

// Catalog holds the resource handlers registered by the route groups.
type Catalog struct {
	Roles     *handler.RoleHandler
	Users     *handler.UserHandler
	Genres    *handler.GenreHandler
	Songs     *handler.SongHandler
	Albums    *handler.AlbumHandler
	Playlists *handler.PlaylistHandler
	Artists   *handler.ArtistHandler
	Landing   *handler.LandingHandler
}

// RegisterPublic registers the unauthenticated browse endpoints. Guests can
// read the whole catalog; mutations live behind JWT in RegisterCatalog.
// The hot browse routes (collection listings and the landing aggregate)
// carry a response cache; pass nil middleware to skip it. Single-resource
// GETs stay uncached so reads after a write see fresh data.
func RegisterPublic(e *echo.Echo, cat *Catalog, cache echo.MiddlewareFunc) {
	hot := func(path string, h echo.HandlerFunc) {
		if cache != nil {
			e.GET(path, h, cache)
			return
		}
		e.GET(path, h)
	}

	hot("/v1/roles", cat.Roles.List)
	e.GET("/v1/roles/:id", cat.Roles.Get)

	hot("/v1/users", cat.Users.List)
	e.GET("/v1/users/:id", cat.Users.Get)

	hot("/v1/genres", cat.Genres.List)
	e.GET("/v1/genres/:id", cat.Genres.Get)

	hot("/v1/songs", cat.Songs.List)
	e.GET("/v1/songs/:id", cat.Songs.Get)

	hot("/v1/albums", cat.Albums.List)
	e.GET("/v1/albums/:id", cat.Albums.Get)

	hot("/v1/playlists", cat.Playlists.List)
	e.GET("/v1/playlists/:id", cat.Playlists.Get)

	hot("/v1/artists", cat.Artists.List)
	e.GET("/v1/artists/:id", cat.Artists.Get)

	hot("/v1/landing", cat.Landing.Landing)
}
