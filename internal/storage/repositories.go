package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/normauto/vehicle-engine/internal/normalize"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflict")
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// VehicleRepository persists normalized vehicle records.
type VehicleRepository struct {
	db DB
}

// NewVehicleRepository creates a new vehicle repository.
func NewVehicleRepository(db DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Upsert writes a normalized record, replacing any previous
// normalization of the same (carrier, source id) pair.
func (r *VehicleRepository) Upsert(ctx context.Context, record *normalize.NormalizedVehicleRecord) error {
	now := time.Now()
	query := `
		INSERT INTO normalized_vehicles (
			id, origen_aseguradora, id_original, marca, modelo, anio,
			transmision, version_original, version_limpia, hash_comercial,
			fecha_procesamiento, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (origen_aseguradora, id_original) DO UPDATE SET
			marca = EXCLUDED.marca,
			modelo = EXCLUDED.modelo,
			anio = EXCLUDED.anio,
			transmision = EXCLUDED.transmision,
			version_original = EXCLUDED.version_original,
			version_limpia = EXCLUDED.version_limpia,
			hash_comercial = EXCLUDED.hash_comercial,
			fecha_procesamiento = EXCLUDED.fecha_procesamiento,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), record.Carrier, record.SourceID, record.Brand, record.Model,
		record.Year, record.Transmission, record.VersionOriginal, record.VersionClean,
		record.CommercialHash, record.ProcessedAt, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert normalized vehicle: %w", err)
	}
	return nil
}

// UpsertBatch writes every record in one pass.
func (r *VehicleRepository) UpsertBatch(ctx context.Context, records []normalize.NormalizedVehicleRecord) error {
	for i := range records {
		if err := r.Upsert(ctx, &records[i]); err != nil {
			return fmt.Errorf("record %s: %w", records[i].SourceID, err)
		}
	}
	return nil
}

// GetBySourceID retrieves one persisted record.
func (r *VehicleRepository) GetBySourceID(ctx context.Context, carrier, sourceID string) (*NormalizedVehicle, error) {
	query := `
		SELECT id, origen_aseguradora, id_original, marca, modelo, anio,
			transmision, version_original, version_limpia, hash_comercial,
			fecha_procesamiento, created_at, updated_at
		FROM normalized_vehicles
		WHERE origen_aseguradora = $1 AND id_original = $2
	`
	v := &NormalizedVehicle{}
	err := r.db.QueryRowContext(ctx, query, carrier, sourceID).Scan(
		&v.ID, &v.Carrier, &v.SourceID, &v.Brand, &v.Model, &v.Year,
		&v.Transmission, &v.VersionOriginal, &v.VersionClean, &v.CommercialHash,
		&v.ProcessedAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

// ListByHash retrieves every record sharing one commercial hash, across
// carriers. This is the cross-carrier identity join the hash exists for.
func (r *VehicleRepository) ListByHash(ctx context.Context, hash string) ([]*NormalizedVehicle, error) {
	query := `
		SELECT id, origen_aseguradora, id_original, marca, modelo, anio,
			transmision, version_original, version_limpia, hash_comercial,
			fecha_procesamiento, created_at, updated_at
		FROM normalized_vehicles
		WHERE hash_comercial = $1
		ORDER BY origen_aseguradora, id_original
	`
	return r.list(ctx, query, hash)
}

// ListByCarrier retrieves persisted records for a carrier, newest first.
func (r *VehicleRepository) ListByCarrier(ctx context.Context, carrier string, limit int) ([]*NormalizedVehicle, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, origen_aseguradora, id_original, marca, modelo, anio,
			transmision, version_original, version_limpia, hash_comercial,
			fecha_procesamiento, created_at, updated_at
		FROM normalized_vehicles
		WHERE origen_aseguradora = $1
		ORDER BY fecha_procesamiento DESC
		LIMIT $2
	`
	return r.list(ctx, query, carrier, limit)
}

func (r *VehicleRepository) list(ctx context.Context, query string, args ...interface{}) ([]*NormalizedVehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*NormalizedVehicle
	for rows.Next() {
		v := &NormalizedVehicle{}
		if err := rows.Scan(
			&v.ID, &v.Carrier, &v.SourceID, &v.Brand, &v.Model, &v.Year,
			&v.Transmission, &v.VersionOriginal, &v.VersionClean, &v.CommercialHash,
			&v.ProcessedAt, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// Stats summarizes persisted output for one carrier.
func (r *VehicleRepository) Stats(ctx context.Context, carrier string) (*CarrierStats, error) {
	stats := &CarrierStats{Carrier: carrier}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT hash_comercial)
		FROM normalized_vehicles WHERE origen_aseguradora = $1
	`, carrier).Scan(&stats.RecordCount, &stats.UniqueHashes)
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM processing_failures WHERE origen_aseguradora = $1
	`, carrier).Scan(&stats.FailureCount)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// FailureRepository persists per-record processing errors.
type FailureRepository struct {
	db DB
}

// NewFailureRepository creates a new failure repository.
func NewFailureRepository(db DB) *FailureRepository {
	return &FailureRepository{db: db}
}

// Save writes one processing error. The raw record is serialized
// alongside so failed inputs can be replayed after a fix.
func (r *FailureRepository) Save(ctx context.Context, carrier string, perr *normalize.ProcessingError) error {
	raw, err := json.Marshal(perr.Record)
	if err != nil {
		return fmt.Errorf("serialize failed record: %w", err)
	}
	query := `
		INSERT INTO processing_failures (
			id, origen_aseguradora, id_original, codigo_error, mensaje,
			registro_original, fecha_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		uuid.New(), carrier, perr.SourceID, perr.Code, perr.Message,
		string(raw), perr.OccurredAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert processing failure: %w", err)
	}
	return nil
}

// SaveBatch writes every failure in one pass.
func (r *FailureRepository) SaveBatch(ctx context.Context, carrier string, failures []normalize.ProcessingError) error {
	for i := range failures {
		if err := r.Save(ctx, carrier, &failures[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListByCarrier retrieves persisted failures for a carrier, newest first.
func (r *FailureRepository) ListByCarrier(ctx context.Context, carrier string, limit int) ([]*ProcessingFailure, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, origen_aseguradora, id_original, codigo_error, mensaje,
			registro_original, fecha_error, created_at
		FROM processing_failures
		WHERE origen_aseguradora = $1
		ORDER BY fecha_error DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, carrier, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []*ProcessingFailure
	for rows.Next() {
		f := &ProcessingFailure{}
		if err := rows.Scan(
			&f.ID, &f.Carrier, &f.SourceID, &f.Code, &f.Message,
			&f.RawRecord, &f.OccurredAt, &f.CreatedAt,
		); err != nil {
			return nil, err
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
