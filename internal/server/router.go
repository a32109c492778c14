package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luminagems/gemstore/internal/api"
	"github.com/luminagems/gemstore/internal/api/handlers"
	"github.com/luminagems/gemstore/internal/api/middleware"
)

type RouterConfig struct {
	SearchHandler  *handlers.SearchHandler
	CatalogHandler *handlers.CatalogHandler
	MediaHandler   *handlers.MediaHandler

	AdminToken string

	// RateCounter may be nil; search routes are then uncapped.
	RateCounter       middleware.WindowCounter
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public storefront surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateCounter, cfg.RateLimitRequests, cfg.RateLimitWindow))

			r.Post("/search", cfg.SearchHandler.Search)
			r.Get("/search/fuzzy-suggestions", cfg.SearchHandler.FuzzySuggestions)
		})

		r.Route("/gemstones", func(r chi.Router) {
			r.Get("/{id}", cfg.CatalogHandler.Get)
			r.Get("/{id}/similar", cfg.CatalogHandler.Similar)
			r.Get("/{id}/media", cfg.MediaHandler.ListByGemstone)
			r.Get("/serial/{serial}", cfg.CatalogHandler.GetBySerial)
		})

		r.Get("/media/{mediaID}/download", cfg.MediaHandler.GetDownloadURL)

		// Catalog management, behind the static admin token.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.AdminToken))

			r.Route("/gemstones", func(r chi.Router) {
				r.Post("/", cfg.CatalogHandler.Create)
				r.Put("/{id}", cfg.CatalogHandler.Update)
				r.Delete("/{id}", cfg.CatalogHandler.Delete)
				r.Post("/{id}/media", cfg.MediaHandler.InitUpload)
			})

			r.Post("/media/{mediaID}/complete", cfg.MediaHandler.CompleteUpload)
		})
	})

	return r
}
