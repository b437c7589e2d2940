// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/calliope-music/calliope/biz/handler"
	"github.com/calliope-music/calliope/biz/middleware"
	"github.com/calliope-music/calliope/biz/service"
	"github.com/calliope-music/calliope/pkg/config"
)

// Register configures the middleware chain and all HTTP routes.
func Register(r *server.Hertz, h *handler.Handler, svc *service.Service, cfg *config.Config) {
	r.Use(
		middleware.Recovery(),
		middleware.Logging(),
		middleware.CORS(&cfg.CORS),
		middleware.Auth(svc),
	)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", middleware.RequireAuth(svc), h.Logout)
	auth.GET("/me", middleware.RequireAuth(svc), h.Me)
	auth.DELETE("/account", middleware.RequireAuth(svc), h.DeleteAccount)

	songs := v1.Group("/songs", middleware.RequireAuth(svc))
	songs.POST("", h.UploadSong)
	songs.GET("", h.ListSongs)
	songs.GET("/:id", h.GetSong)
	songs.DELETE("/:id", h.DeleteSong)

	playlists := v1.Group("/playlists", middleware.RequireAuth(svc))
	playlists.POST("", h.CreatePlaylist)
	playlists.GET("", h.ListPlaylists)
	playlists.GET("/:id", h.GetPlaylist)
	playlists.POST("/:id/songs", h.AddSongsToPlaylist)
	playlists.DELETE("/:id", h.DeletePlaylist)

	v1.GET("/genres", h.ListGenres)

	// File serving checks authorization in the handler itself so an
	// anonymous request gets 403 before any path is looked at.
	r.GET("/files/*filepath", h.ServeFile)

	// Routes kept for clients of the previous API surface.
	r.GET("/GetFile/*filepath", h.ServeFile)
	r.GET("/GetImage/*filepath", h.ServeFile)
	r.GET("/GetAudio/*filepath", h.ServeFile)

	r.GET("/ping", h.Ping)
}
