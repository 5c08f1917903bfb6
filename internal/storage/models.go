// Package storage provides database models and repositories for the
// Vehicle Engine.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// NormalizedVehicle is the persisted form of a normalized record. One
// row per (carrier, source id) pair; reprocessing the same source
// record overwrites the previous normalization.
type NormalizedVehicle struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Carrier         string    `json:"origen_aseguradora" db:"origen_aseguradora"`
	SourceID        string    `json:"id_original" db:"id_original"`
	Brand           string    `json:"marca" db:"marca"`
	Model           string    `json:"modelo" db:"modelo"`
	Year            int       `json:"anio" db:"anio"`
	Transmission    string    `json:"transmision" db:"transmision"`
	VersionOriginal string    `json:"version_original" db:"version_original"`
	VersionClean    string    `json:"version_limpia" db:"version_limpia"`
	CommercialHash  string    `json:"hash_comercial" db:"hash_comercial"`
	ProcessedAt     time.Time `json:"fecha_procesamiento" db:"fecha_procesamiento"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ProcessingFailure is the persisted form of a per-record processing
// error, kept for audit and replay.
type ProcessingFailure struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Carrier    string    `json:"origen_aseguradora" db:"origen_aseguradora"`
	SourceID   string    `json:"id_original" db:"id_original"`
	Code       string    `json:"codigo_error" db:"codigo_error"`
	Message    string    `json:"mensaje" db:"mensaje"`
	RawRecord  string    `json:"registro_original" db:"registro_original"`
	OccurredAt time.Time `json:"fecha_error" db:"fecha_error"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CarrierStats summarizes persisted output for one carrier.
type CarrierStats struct {
	Carrier      string `json:"origen_aseguradora" db:"origen_aseguradora"`
	RecordCount  int    `json:"record_count" db:"record_count"`
	FailureCount int    `json:"failure_count" db:"failure_count"`
	UniqueHashes int    `json:"unique_hashes" db:"unique_hashes"`
}
