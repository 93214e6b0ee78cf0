/*
NjordDB REST API

This is the REST API for NjordDB, a concurrent quadtree spatial index.

Version: 1.0.0
BasePath: /api/v1

SecurityDefinitions:
  - ApiKeyAuth:
    type: apiKey
    in: header
    name: X-API-Key

swagger:meta
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ssargent/njorddb/pkg/catalog"
)

// Server wires the catalog to the HTTP surface.
type Server struct {
	catalog *catalog.Catalog
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a server over an opened catalog.
func NewServer(cat *catalog.Catalog, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		catalog: cat,
		config:  config,
		metrics: metrics,
	}
}

// Router builds the chi router with all routes configured.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		// Health check
		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Entity operations
		r.Post("/entities", s.metrics.InstrumentHandler("POST", "/api/v1/entities", s.handlePutEntity))
		r.Get("/entities/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/entities/{id}", s.handleGetEntity))
		r.Delete("/entities/{id}", s.metrics.InstrumentHandler("DELETE", "/api/v1/entities/{id}", s.handleDeleteEntity))
		r.Post("/entities/{id}/move", s.metrics.InstrumentHandler("POST", "/api/v1/entities/{id}/move", s.handleMoveEntity))

		// Spatial search
		r.Get("/search", s.metrics.InstrumentHandler("GET", "/api/v1/search", s.handleSearch))

		// Maintenance and diagnostics
		r.Post("/clear", s.metrics.InstrumentHandler("POST", "/api/v1/clear", s.handleClear))
		r.Get("/stats", s.metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", s.config.Port)),
	))

	return r
}

// startMetricsUpdater refreshes the shape gauges in the background.
func (s *Server) startMetricsUpdater() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			stats := s.catalog.Stats()
			s.metrics.UpdateIndexStats(stats.Entities, stats.Index.Nodes, stats.Index.MaxDepth)
		}
	}()
}

// StartServer starts the HTTP server with all routes configured
func StartServer(cat *catalog.Catalog, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(cat, config, metrics)

	server.startMetricsUpdater()

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting NjordDB REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, server.Router())
}
