package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/orifkhon/music-catalog-api/internal/config"
	"github.com/orifkhon/music-catalog-api/internal/database"
	"github.com/orifkhon/music-catalog-api/internal/handler"
	"github.com/orifkhon/music-catalog-api/internal/middleware"
	"github.com/orifkhon/music-catalog-api/internal/queue"
	"github.com/orifkhon/music-catalog-api/internal/repository"
	"github.com/orifkhon/music-catalog-api/internal/router"
	"github.com/orifkhon/music-catalog-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db, log); err != nil {
		cancel()
		log.WithError(err).Fatal("migrations failed")
	}
	cancel()

	roles := repository.NewRoleRepo(db)
	users := repository.NewUserRepo(db)
	genres := repository.NewGenreRepo(db)
	songs := repository.NewSongRepo(db)
	albums := repository.NewAlbumRepo(db)
	playlists := repository.NewPlaylistRepo(db)

	publisher := service.NewPlayEventPublisher(log)

	cat := &router.Catalog{
		Roles:     handler.NewRoleHandler(roles),
		Users:     handler.NewUserHandler(cfg, users),
		Genres:    handler.NewGenreHandler(genres),
		Songs:     handler.NewSongHandler(songs, publisher),
		Albums:    handler.NewAlbumHandler(albums, users, songs),
		Playlists: handler.NewPlaylistHandler(playlists, users, songs),
		Artists:   handler.NewArtistHandler(users, songs, albums),
		Landing:   handler.NewLandingHandler(genres, songs, albums, users),
	}
	auth := handler.NewAuthHandler(cfg, users, roles)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterPublic(e, cat, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCatalog(e, cat, cfg.JWTSecret)

	go func() {
		if err := queue.StartPlayConsumer(log); err != nil {
			log.WithError(err).Error("play consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
