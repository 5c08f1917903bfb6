package normalize

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testProfile(t), zerolog.Nop())
	require.NoError(t, err)
	return e
}

func TestEngine_Process_FullRecord(t *testing.T) {
	e := testEngine(t)

	record, perr := e.Process(RawVehicleRecord{
		SourceID:        "q-001",
		Brand:           "ford",
		Model:           "F150",
		Year:            2020,
		VersionOriginal: "4X4 5.0L XLT 4 PTS AUT",
	})
	require.Nil(t, perr)
	require.NotNil(t, record)

	assert.Equal(t, "TESTCO", record.Carrier)
	assert.Equal(t, "q-001", record.SourceID)
	assert.Equal(t, "FORD", record.Brand)
	assert.Equal(t, "F150", record.Model)
	assert.Equal(t, 2020, record.Year)
	assert.Equal(t, TransmissionAuto, record.Transmission)
	assert.Equal(t, "4X4 5.0L XLT 4 PTS AUT", record.VersionOriginal)
	assert.Equal(t, "4WD 5.0L XLT 4PUERTAS", record.VersionClean)
	assert.Equal(t, "c7ad58acb2f444a9d092b04c92ffc0e83f81125a17bd1ab14d4bb550f597587f", record.CommercialHash)
	assert.False(t, record.ProcessedAt.IsZero())
}

func TestEngine_Process_BrandAlias(t *testing.T) {
	e := testEngine(t)

	record, perr := e.Process(RawVehicleRecord{
		SourceID:        "q-002",
		Brand:           "IZSUZU",
		Model:           "ELF",
		Year:            2022,
		Transmission:    "STD",
		VersionOriginal: "ELF 300 CHASIS",
	})
	require.Nil(t, perr)
	assert.Equal(t, "ISUZU", record.Brand)
	assert.Equal(t, TransmissionManual, record.Transmission)
}

func TestEngine_Process_ValidationError(t *testing.T) {
	e := testEngine(t)

	input := RawVehicleRecord{
		SourceID:        "q-003",
		Brand:           "FORD",
		Year:            1980,
		VersionOriginal: "XLT 4X4",
	}
	record, perr := e.Process(input)
	require.Nil(t, record)
	require.NotNil(t, perr)

	assert.True(t, perr.Error)
	assert.Equal(t, CodeValidationError, perr.Code)
	assert.Equal(t, "q-003", perr.SourceID)
	assert.Equal(t, input, perr.Record)
	// Every violation is reported at once.
	assert.Contains(t, perr.Message, "modelo")
	assert.Contains(t, perr.Message, "anio")
	assert.Contains(t, perr.Message, "transmision")
	assert.False(t, perr.OccurredAt.IsZero())
}

func TestEngine_Process_DoesNotMutateInput(t *testing.T) {
	e := testEngine(t)

	input := RawVehicleRecord{
		SourceID:        "q-004",
		Brand:           "ford",
		Model:           "F150",
		Year:            2020,
		VersionOriginal: "4X4 5.0L XLT 4 PTS AUT",
	}
	snapshot := input

	_, perr := e.Process(input)
	require.Nil(t, perr)
	assert.Equal(t, snapshot, input)
}

func TestEngine_NormalizeVersion_Idempotent(t *testing.T) {
	e := testEngine(t)

	first, err := e.NormalizeVersion("4X4 5.0L XLT 4 PTS AUT", "F150", "FORD")
	require.NoError(t, err)

	second, err := e.NormalizeVersion(first, "F150", "FORD")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_NormalizeVersion_IdempotentTurboWithLiters(t *testing.T) {
	e := testEngine(t)

	first, err := e.NormalizeVersion("XLT 1.5T 2.0L", "F150", "FORD")
	require.NoError(t, err)
	assert.Equal(t, "XLT 1.5 TURBO 2.0L", first)

	second, err := e.NormalizeVersion(first, "F150", "FORD")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_Process_BrandDiacriticsFolded(t *testing.T) {
	e := testEngine(t)

	accented, perr := e.Process(RawVehicleRecord{
		SourceID:        "q-010",
		Brand:           "Citroën",
		Model:           "C3",
		Year:            2021,
		VersionOriginal: "FEEL 1.2L AUT",
	})
	require.Nil(t, perr)
	assert.Equal(t, "CITROEN", accented.Brand)

	plain, perr := e.Process(RawVehicleRecord{
		SourceID:        "q-011",
		Brand:           "CITROEN",
		Model:           "C3",
		Year:            2021,
		VersionOriginal: "FEEL 1.2L AUT",
	})
	require.Nil(t, perr)
	assert.Equal(t, plain.CommercialHash, accented.CommercialHash)
}

func TestEngine_NormalizeVersion_OccupantsAppended(t *testing.T) {
	e := testEngine(t)

	got, err := e.NormalizeVersion("URVAN 12 PASAJEROS AUT", "URVAN", "NISSAN")
	require.NoError(t, err)
	assert.Equal(t, "12OCUP", got)
}

func TestBatchProcessor_Process_OrderAndIsolation(t *testing.T) {
	e := testEngine(t)
	bp := NewBatchProcessor(e, 4, zerolog.Nop())

	records := []RawVehicleRecord{
		{SourceID: "a", Brand: "FORD", Model: "F150", Year: 2020, VersionOriginal: "XLT AUT"},
		{SourceID: "b", Brand: "FORD", Model: "RANGER", Year: 1980, VersionOriginal: "XL AUT"},
		{SourceID: "c", Brand: "HONDA", Model: "CIVIC", Year: 2021, VersionOriginal: "TOURING CVT"},
	}

	result, err := bp.Process(context.Background(), records)
	require.NoError(t, err)
	require.NotEmpty(t, result.JobID)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "a", result.Records[0].SourceID)
	assert.Equal(t, "c", result.Records[1].SourceID)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "b", result.Errors[0].SourceID)
	assert.Equal(t, CodeValidationError, result.Errors[0].Code)
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	e := testEngine(t)
	bp := NewBatchProcessor(e, 4, zerolog.Nop())

	result, err := bp.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Errors)
}

func TestBatchProcessor_Process_ReportsProgress(t *testing.T) {
	e := testEngine(t)
	bp := NewBatchProcessor(e, 1, zerolog.Nop())

	var last int64
	bp.OnProgress = func(done int64) { last = done }

	records := []RawVehicleRecord{
		{SourceID: "a", Brand: "FORD", Model: "F150", Year: 2020, VersionOriginal: "XLT AUT"},
		{SourceID: "b", Brand: "HONDA", Model: "CIVIC", Year: 2021, VersionOriginal: "TOURING CVT"},
	}

	_, err := bp.Process(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, int64(2), last)
}
