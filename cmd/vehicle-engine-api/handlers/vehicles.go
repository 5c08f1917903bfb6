package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/normauto/vehicle-engine/internal/storage"
)

// VehiclesHandler serves persisted normalization output.
type VehiclesHandler struct {
	logger   zerolog.Logger
	vehicles *storage.VehicleRepository
	failures *storage.FailureRepository
}

// NewVehiclesHandler creates a new vehicles handler.
func NewVehiclesHandler(logger zerolog.Logger, vehicles *storage.VehicleRepository, failures *storage.FailureRepository) *VehiclesHandler {
	return &VehiclesHandler{
		logger:   logger.With().Str("handler", "vehicles").Logger(),
		vehicles: vehicles,
		failures: failures,
	}
}

// ListByCarrier handles GET /carriers/{carrierId}/vehicles.
func (h *VehiclesHandler) ListByCarrier(w http.ResponseWriter, r *http.Request) {
	carrierID := chi.URLParam(r, "carrierId")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.vehicles.ListByCarrier(r.Context(), carrierID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("carrier", carrierID).Msg("list vehicles failed")
		writeError(w, http.StatusInternalServerError, "list vehicles failed")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ListByHash handles GET /vehicles/hash/{hash}.
func (h *VehiclesHandler) ListByHash(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	records, err := h.vehicles.ListByHash(r.Context(), hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no vehicles for hash")
			return
		}
		h.logger.Error().Err(err).Msg("list by hash failed")
		writeError(w, http.StatusInternalServerError, "list by hash failed")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ListFailures handles GET /carriers/{carrierId}/failures.
func (h *VehiclesHandler) ListFailures(w http.ResponseWriter, r *http.Request) {
	carrierID := chi.URLParam(r, "carrierId")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	failures, err := h.failures.ListByCarrier(r.Context(), carrierID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("carrier", carrierID).Msg("list failures failed")
		writeError(w, http.StatusInternalServerError, "list failures failed")
		return
	}
	writeJSON(w, http.StatusOK, failures)
}

// Stats handles GET /carriers/{carrierId}/stats.
func (h *VehiclesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	carrierID := chi.URLParam(r, "carrierId")

	stats, err := h.vehicles.Stats(r.Context(), carrierID)
	if err != nil {
		h.logger.Error().Err(err).Str("carrier", carrierID).Msg("stats failed")
		writeError(w, http.StatusInternalServerError, "stats failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
