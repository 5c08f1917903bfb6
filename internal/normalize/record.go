// Package normalize implements the vehicle description normalization
// engine: it converges carrier-specific free-text vehicle descriptions
// into one canonical shape with a stable commercial identity hash.
package normalize

import (
	"time"
)

// RawVehicleRecord is a carrier-supplied input record. The engine never
// mutates it; every derived field lands on NormalizedVehicleRecord.
type RawVehicleRecord struct {
	SourceID              string `json:"id_original"`
	Brand                 string `json:"marca"`
	Model                 string `json:"modelo"`
	Year                  int    `json:"anio"`
	VersionOriginal       string `json:"version_original"`
	Transmission          string `json:"transmision"`
	TransmissionSecondary string `json:"transmision_codigo,omitempty"`
	Active                *bool  `json:"activo,omitempty"`
}

// NormalizedVehicleRecord is the engine's canonical output shape.
// Transmission is always AUTO or MANUAL on a successful record.
type NormalizedVehicleRecord struct {
	Carrier         string    `json:"origen_aseguradora"`
	SourceID        string    `json:"id_original"`
	Brand           string    `json:"marca"`
	Model           string    `json:"modelo"`
	Year            int       `json:"anio"`
	Transmission    string    `json:"transmision"`
	VersionOriginal string    `json:"version_original"`
	VersionClean    string    `json:"version_limpia"`
	ProcessedAt     time.Time `json:"fecha_procesamiento"`
	CommercialHash  string    `json:"hash_comercial"`
}

// Error codes attached to ProcessingError records.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeHashGenerationError = "HASH_GENERATION_ERROR"
	CodeNormalizationError  = "NORMALIZATION_ERROR"
)

// ProcessingError captures a per-record failure with enough context for
// audit and replay. It is a value in the output stream, not a Go error:
// callers branch on the Error flag.
type ProcessingError struct {
	Error      bool             `json:"error"`
	Message    string           `json:"mensaje"`
	SourceID   string           `json:"id_original"`
	Code       string           `json:"codigo_error"`
	Record     RawVehicleRecord `json:"registro_original"`
	OccurredAt time.Time        `json:"fecha_error"`
}

// Transmission enum values.
const (
	TransmissionAuto   = "AUTO"
	TransmissionManual = "MANUAL"
)
