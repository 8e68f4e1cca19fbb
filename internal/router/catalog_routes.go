package router

import (
	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/middleware"
	"github.com/orifkhon/music-catalog-api/internal/model"
)

// RegisterCatalog registers the catalog mutations. Every route requires a
// valid access token; role administration and user deletion additionally
// require the admin role.
func RegisterCatalog(e *echo.Echo, cat *Catalog, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.POST("/roles", cat.Roles.Create)
	admin.PUT("/roles/:id", cat.Roles.Update)
	admin.PATCH("/roles/:id", cat.Roles.Update)
	admin.DELETE("/roles/:id", cat.Roles.Delete)

	auth.POST("/users", cat.Users.Create)
	auth.PUT("/users/:id", cat.Users.Update)
	auth.PATCH("/users/:id", cat.Users.Patch)
	admin.DELETE("/users/:id", cat.Users.Delete)

	auth.POST("/genres", cat.Genres.Create)
	auth.PUT("/genres/:id", cat.Genres.Update)
	auth.PATCH("/genres/:id", cat.Genres.Update)
	auth.DELETE("/genres/:id", cat.Genres.Delete)

	auth.POST("/songs", cat.Songs.Create)
	auth.PUT("/songs/:id", cat.Songs.Update)
	auth.PATCH("/songs/:id", cat.Songs.Patch)
	auth.DELETE("/songs/:id", cat.Songs.Delete)
	auth.POST("/songs/:id/increase-play", cat.Songs.IncreasePlay)

	auth.POST("/albums", cat.Albums.Create)
	auth.PUT("/albums/:id", cat.Albums.Update)
	auth.PATCH("/albums/:id", cat.Albums.Patch)
	auth.DELETE("/albums/:id", cat.Albums.Delete)
	auth.POST("/albums/:id/add-song", cat.Albums.AddSong)
	auth.POST("/albums/:id/remove-song", cat.Albums.RemoveSong)

	auth.POST("/playlists", cat.Playlists.Create)
	auth.PUT("/playlists/:id", cat.Playlists.Update)
	auth.PATCH("/playlists/:id", cat.Playlists.Patch)
	auth.DELETE("/playlists/:id", cat.Playlists.Delete)
	auth.POST("/playlists/:id/add-song", cat.Playlists.AddSong)
	auth.POST("/playlists/:id/remove-song", cat.Playlists.RemoveSong)
}
