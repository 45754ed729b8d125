package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Trivia Night API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(deps.Logger, deps.DB, deps.Redis))

	// The realtime game surface: all session events after auth.
	r.Get("/ws", handleWS(deps.Logger, deps.Hub, deps.Room, deps.Genie))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/identity", handleAuthIdentity(deps.Directory, deps.Credentials))
		r.Post("/session", handleAuthSession(deps.Directory, deps.Credentials, deps.Room.Tokens()))
		r.Post("/verify", handleAuthVerify(deps.Room.Tokens()))
	})

	r.Post("/api/admin/login", handleAdminLogin(deps.AdminIdentity, deps.AdminPasswordHash, deps.Room.Tokens()))

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			deps.Logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
