// Package main provides the API router setup.
package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/normauto/vehicle-engine/cmd/vehicle-engine-api/handlers"
	"github.com/normauto/vehicle-engine/cmd/vehicle-engine-api/middleware"
	"github.com/normauto/vehicle-engine/internal/cache"
	"github.com/normauto/vehicle-engine/internal/carrier"
	"github.com/normauto/vehicle-engine/internal/config"
	"github.com/normauto/vehicle-engine/internal/storage"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(
	logger zerolog.Logger,
	cfg *config.Config,
	registry *carrier.Registry,
	db *sql.DB,
	cacheClient cache.Client,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	// Health check (unauthenticated)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"vehicle-engine"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	vehicleRepo := storage.NewVehicleRepository(db)
	failureRepo := storage.NewFailureRepository(db)

	normalizeHandler := handlers.NewNormalizeHandler(logger, registry, cacheClient, handlers.NormalizeConfig{
		MaxWorkers:      cfg.Engine.MaxWorkers,
		UploadBatchSize: cfg.Upload.BatchSize,
		CacheTTL:        cfg.Cache.TTL,
	})
	carriersHandler := handlers.NewCarriersHandler(logger, registry)
	vehiclesHandler := handlers.NewVehiclesHandler(logger, vehicleRepo, failureRepo)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/carriers", func(r chi.Router) {
			r.Get("/", carriersHandler.List)
			r.Get("/{carrierId}", carriersHandler.Get)
			r.Post("/{carrierId}/normalize", normalizeHandler.Normalize)
			r.Post("/{carrierId}/batch", normalizeHandler.BuildBatches)
			r.Get("/{carrierId}/vehicles", vehiclesHandler.ListByCarrier)
			r.Get("/{carrierId}/failures", vehiclesHandler.ListFailures)
			r.Get("/{carrierId}/stats", vehiclesHandler.Stats)
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/hash/{hash}", vehiclesHandler.ListByHash)
		})
	})

	return r
}
