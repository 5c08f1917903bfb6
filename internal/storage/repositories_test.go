package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normauto/vehicle-engine/internal/normalize"
)

func newMockDB(t *testing.T) (*VehicleRepository, *FailureRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewVehicleRepository(db), NewFailureRepository(db), mock
}

func sampleRecord() normalize.NormalizedVehicleRecord {
	return normalize.NormalizedVehicleRecord{
		Carrier:         "QUALITAS",
		SourceID:        "q-001",
		Brand:           "FORD",
		Model:           "F150",
		Year:            2020,
		Transmission:    normalize.TransmissionAuto,
		VersionOriginal: "4X4 5.0L XLT AUT",
		VersionClean:    "4WD 5.0L XLT",
		CommercialHash:  "c7ad58acb2f444a9d092b04c92ffc0e83f81125a17bd1ab14d4bb550f597587f",
		ProcessedAt:     time.Now().UTC(),
	}
}

func TestVehicleRepository_Upsert(t *testing.T) {
	vehicles, _, mock := newMockDB(t)
	record := sampleRecord()

	mock.ExpectExec("INSERT INTO normalized_vehicles").
		WithArgs(
			sqlmock.AnyArg(), record.Carrier, record.SourceID, record.Brand,
			record.Model, record.Year, record.Transmission, record.VersionOriginal,
			record.VersionClean, record.CommercialHash, record.ProcessedAt,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, vehicles.Upsert(context.Background(), &record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_UpsertBatch(t *testing.T) {
	vehicles, _, mock := newMockDB(t)

	records := []normalize.NormalizedVehicleRecord{sampleRecord(), sampleRecord()}
	records[1].SourceID = "q-002"

	mock.ExpectExec("INSERT INTO normalized_vehicles").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO normalized_vehicles").WillReturnResult(sqlmock.NewResult(2, 1))

	require.NoError(t, vehicles.UpsertBatch(context.Background(), records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_GetBySourceID(t *testing.T) {
	vehicles, _, mock := newMockDB(t)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "origen_aseguradora", "id_original", "marca", "modelo", "anio",
		"transmision", "version_original", "version_limpia", "hash_comercial",
		"fecha_procesamiento", "created_at", "updated_at",
	}).AddRow(
		id.String(), "QUALITAS", "q-001", "FORD", "F150", 2020,
		"AUTO", "4X4 5.0L XLT AUT", "4WD 5.0L XLT", "abc123",
		now, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM normalized_vehicles").
		WithArgs("QUALITAS", "q-001").
		WillReturnRows(rows)

	v, err := vehicles.GetBySourceID(context.Background(), "QUALITAS", "q-001")
	require.NoError(t, err)
	assert.Equal(t, id, v.ID)
	assert.Equal(t, "QUALITAS", v.Carrier)
	assert.Equal(t, "F150", v.Model)
	assert.Equal(t, "AUTO", v.Transmission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_GetBySourceID_NotFound(t *testing.T) {
	vehicles, _, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM normalized_vehicles").
		WithArgs("QUALITAS", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := vehicles.GetBySourceID(context.Background(), "QUALITAS", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVehicleRepository_ListByHash(t *testing.T) {
	vehicles, _, mock := newMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "origen_aseguradora", "id_original", "marca", "modelo", "anio",
		"transmision", "version_original", "version_limpia", "hash_comercial",
		"fecha_procesamiento", "created_at", "updated_at",
	}).
		AddRow(uuid.New().String(), "QUALITAS", "q-001", "FORD", "F150", 2020,
			"AUTO", "XLT AUT", "XLT", "h1", now, now, now).
		AddRow(uuid.New().String(), "GNP", "g-042", "FORD", "F150", 2020,
			"AUTO", "XLT AUTOMATICO", "XLT", "h1", now, now, now)
	mock.ExpectQuery("SELECT (.+) FROM normalized_vehicles").
		WithArgs("h1").
		WillReturnRows(rows)

	matches, err := vehicles.ListByHash(context.Background(), "h1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "QUALITAS", matches[0].Carrier)
	assert.Equal(t, "GNP", matches[1].Carrier)
}

func TestVehicleRepository_Stats(t *testing.T) {
	vehicles, _, mock := newMockDB(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COUNT\\(DISTINCT hash_comercial\\)").
		WithArgs("QUALITAS").
		WillReturnRows(sqlmock.NewRows([]string{"count", "distinct"}).AddRow(42, 37))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM processing_failures").
		WithArgs("QUALITAS").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	stats, err := vehicles.Stats(context.Background(), "QUALITAS")
	require.NoError(t, err)
	assert.Equal(t, 42, stats.RecordCount)
	assert.Equal(t, 37, stats.UniqueHashes)
	assert.Equal(t, 3, stats.FailureCount)
}

func TestFailureRepository_Save(t *testing.T) {
	_, failures, mock := newMockDB(t)

	perr := &normalize.ProcessingError{
		Error:      true,
		Code:       normalize.CodeValidationError,
		Message:    "anio 1980 outside accepted window 2000-2030",
		SourceID:   "q-003",
		OccurredAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO processing_failures").
		WithArgs(
			sqlmock.AnyArg(), "QUALITAS", perr.SourceID, perr.Code, perr.Message,
			sqlmock.AnyArg(), perr.OccurredAt, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, failures.Save(context.Background(), "QUALITAS", perr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFailureRepository_ListByCarrier(t *testing.T) {
	_, failures, mock := newMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "origen_aseguradora", "id_original", "codigo_error", "mensaje",
		"registro_original", "fecha_error", "created_at",
	}).AddRow(uuid.New().String(), "QUALITAS", "q-003", "VALIDATION_ERROR",
		"anio outside accepted window", "{}", now, now)
	mock.ExpectQuery("SELECT (.+) FROM processing_failures").
		WithArgs("QUALITAS", 100).
		WillReturnRows(rows)

	list, err := failures.ListByCarrier(context.Background(), "QUALITAS", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "VALIDATION_ERROR", list[0].Code)
}
