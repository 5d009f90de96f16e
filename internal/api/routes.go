package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/foundatiofx/go-lucene/internal/config"
	"github.com/foundatiofx/go-lucene/internal/observability"
	"github.com/foundatiofx/go-lucene/internal/parsecache"
	"github.com/foundatiofx/go-lucene/internal/ratelimit"
	"github.com/foundatiofx/go-lucene/internal/sanitize"
	"github.com/foundatiofx/go-lucene/internal/schema"
)

// SetupRoutes wires the full HTTP surface: health/ready/metrics, the query
// engine endpoints (parse/render/validate/expand-includes), and schema
// management.
func SetupRoutes(cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics, schemaRegistry *schema.Registry, cache *parsecache.ParseCache, rateLimiter *ratelimit.RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	handlers := NewHandlers(cfg, logger, metrics, schemaRegistry, cache)
	schemaHandler := NewHandler(schemaRegistry)
	validator := sanitize.NewValidator(&cfg.Security, &cfg.Limits)

	r.Use(RequestIDMiddleware(cfg))
	r.Use(RateLimitMiddleware(rateLimiter, cfg))
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	r.Use(CORSMiddleware(cfg))
	r.Use(ValidationMiddleware(validator, cfg))

	if metrics != nil {
		r.Use(MetricsMiddleware(metrics))
	}

	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready)

	if cfg.Metrics.Enabled && metrics != nil {
		r.Handle(cfg.Metrics.Path, handlers.Metrics())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", handlers.Parse)
		r.Post("/render", handlers.Render)
		r.Post("/validate", handlers.Validate)
		r.Post("/expand-includes", handlers.ExpandIncludes)

		r.Post("/schemas", schemaHandler.RegisterSchema)
		r.Get("/schemas", schemaHandler.ListSchemas)
		r.Get("/schemas/{name}", schemaHandler.GetSchema)
		r.Delete("/schemas/{name}", schemaHandler.DeleteSchema)

		r.Get("/includes", handlers.ListIncludes)
		r.Put("/includes/{name}", handlers.PutInclude)
		r.Get("/includes/{name}", handlers.GetInclude)
		r.Delete("/includes/{name}", handlers.DeleteInclude)
	})

	return r
}
