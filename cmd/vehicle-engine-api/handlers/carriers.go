package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

// CarriersHandler exposes the configured carrier profiles.
type CarriersHandler struct {
	logger   zerolog.Logger
	registry *carrier.Registry
}

// NewCarriersHandler creates a new carriers handler.
func NewCarriersHandler(logger zerolog.Logger, registry *carrier.Registry) *CarriersHandler {
	return &CarriersHandler{
		logger:   logger.With().Str("handler", "carriers").Logger(),
		registry: registry,
	}
}

// CarrierSummaryDTO is the list item for GET /carriers.
type CarrierSummaryDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	YearMin int    `json:"year_min"`
	YearMax int    `json:"year_max"`
}

// List handles GET /carriers.
func (h *CarriersHandler) List(w http.ResponseWriter, r *http.Request) {
	ids := h.registry.IDs()
	summaries := make([]CarrierSummaryDTO, 0, len(ids))
	for _, id := range ids {
		p, err := h.registry.Get(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		summaries = append(summaries, CarrierSummaryDTO{
			ID:      p.ID,
			Name:    p.Name,
			YearMin: p.YearMin,
			YearMax: p.YearMax,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Get handles GET /carriers/{carrierId}.
func (h *CarriersHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.registry.Get(chi.URLParam(r, "carrierId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}
