// Package router wires the HTTP surface: public browse routes, auth routes
// and the JWT-protected catalog mutations.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/handler"
	"github.com/orifkhon/music-catalog-api/internal/middleware"
)

// RegisterRoutes registers routes that carry no middleware at all. Load
// balancers and monitors probe /healthz.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register and login
// are open; /v1/auth/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	me := e.Group("/v1/auth")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}
