package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/lendlens/lendlens/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/version", handlers.VersionHandler)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/batch", s.api.RunBatch)
		r.Get("/batches/recent", s.api.RecentBatches)
		r.Get("/subjects/{name}/report", s.api.LatestReport)
	})
}
