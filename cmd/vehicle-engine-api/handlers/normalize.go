// Package handlers provides HTTP handlers for the Vehicle Engine API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/normauto/vehicle-engine/internal/cache"
	"github.com/normauto/vehicle-engine/internal/carrier"
	"github.com/normauto/vehicle-engine/internal/normalize"
	"github.com/normauto/vehicle-engine/internal/upload"
)

// NormalizeConfig holds normalization handler settings.
type NormalizeConfig struct {
	MaxWorkers      int
	UploadBatchSize int
	CacheTTL        time.Duration
}

// NormalizeHandler normalizes raw carrier records over HTTP.
type NormalizeHandler struct {
	logger   zerolog.Logger
	registry *carrier.Registry
	cache    cache.Client
	cfg      NormalizeConfig
}

// NewNormalizeHandler creates a new normalization handler.
func NewNormalizeHandler(logger zerolog.Logger, registry *carrier.Registry, cacheClient cache.Client, cfg NormalizeConfig) *NormalizeHandler {
	return &NormalizeHandler{
		logger:   logger.With().Str("handler", "normalize").Logger(),
		registry: registry,
		cache:    cacheClient,
		cfg:      cfg,
	}
}

// NormalizeRequestDTO is the request body for POST /carriers/{carrierId}/normalize.
type NormalizeRequestDTO struct {
	Records []normalize.RawVehicleRecord `json:"vehiculos"`
}

// NormalizeResponseDTO is the response body.
type NormalizeResponseDTO struct {
	JobID    string                              `json:"jobId"`
	Carrier  string                              `json:"carrier"`
	Records  []normalize.NormalizedVehicleRecord `json:"vehiculos"`
	Errors   []normalize.ProcessingError         `json:"errores,omitempty"`
	Duration string                              `json:"duration"`
}

// Normalize handles POST /carriers/{carrierId}/normalize.
func (h *NormalizeHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.registry.Get(chi.URLParam(r, "carrierId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req NormalizeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "vehiculos must not be empty")
		return
	}

	engine, err := normalize.NewEngine(profile, h.logger)
	if err != nil {
		h.logger.Error().Err(err).Str("carrier", profile.ID).Msg("engine build failed")
		writeError(w, http.StatusInternalServerError, "engine build failed")
		return
	}
	processor := normalize.NewBatchProcessor(engine, h.cfg.MaxWorkers, h.logger)

	result, err := processor.Process(ctx, req.Records)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "batch processing interrupted: "+err.Error())
		return
	}

	h.cacheResults(ctx, profile.ID, result.Records)

	writeJSON(w, http.StatusOK, NormalizeResponseDTO{
		JobID:    result.JobID,
		Carrier:  result.Carrier,
		Records:  result.Records,
		Errors:   result.Errors,
		Duration: result.Duration.String(),
	})
}

// cacheResults stores cleaned versions keyed by raw input, so repeated
// feeds of the same description can be served without reprocessing.
func (h *NormalizeHandler) cacheResults(ctx context.Context, carrierID string, records []normalize.NormalizedVehicleRecord) {
	if h.cache == nil {
		return
	}
	for i := range records {
		key := cache.VersionCacheKey(carrierID, records[i].VersionOriginal)
		data, err := json.Marshal(&records[i])
		if err != nil {
			continue
		}
		if err := h.cache.Set(ctx, key, data, h.cfg.CacheTTL); err != nil {
			h.logger.Debug().Err(err).Msg("cache set failed")
			return
		}
	}
}

// BatchRequestDTO is the request body for POST /carriers/{carrierId}/batch.
type BatchRequestDTO struct {
	Records   []normalize.NormalizedVehicleRecord `json:"vehiculos"`
	BatchSize int                                 `json:"batch_size,omitempty"`
}

// BuildBatches handles POST /carriers/{carrierId}/batch.
func (h *NormalizeHandler) BuildBatches(w http.ResponseWriter, r *http.Request) {
	if _, err := h.registry.Get(chi.URLParam(r, "carrierId")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req BatchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	size := req.BatchSize
	if size <= 0 {
		size = h.cfg.UploadBatchSize
	}
	payloads, err := upload.NewBuilder(size).Build(req.Records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payloads": payloads,
		"total":    len(payloads),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
