package upload

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normauto/vehicle-engine/internal/normalize"
)

func record(sourceID, hash, version string) normalize.NormalizedVehicleRecord {
	return normalize.NormalizedVehicleRecord{
		Carrier:        "QUALITAS",
		SourceID:       sourceID,
		Brand:          "FORD",
		Model:          "F150",
		Year:           2020,
		Transmission:   normalize.TransmissionAuto,
		VersionClean:   version,
		CommercialHash: hash,
	}
}

func TestBuilder_Build_DeduplicatesByHashAndVersion(t *testing.T) {
	b := NewBuilder(10)

	payloads, err := b.Build([]normalize.NormalizedVehicleRecord{
		record("a", "h1", "XLT 4WD"),
		record("b", "h1", "XLT 4WD"),
		record("c", "h1", "LARIAT 4WD"),
		record("d", "h2", "XLT 4WD"),
	})
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, 3, payloads[0].RecordCount)

	var records []normalize.NormalizedVehicleRecord
	require.NoError(t, json.Unmarshal([]byte(payloads[0].VehiclesJSON), &records))
	require.Len(t, records, 3)
	// First occurrence wins.
	assert.Equal(t, "a", records[0].SourceID)
	assert.Equal(t, "c", records[1].SourceID)
	assert.Equal(t, "d", records[2].SourceID)
}

func TestBuilder_Build_SlicesIntoBatches(t *testing.T) {
	b := NewBuilder(2)

	var input []normalize.NormalizedVehicleRecord
	for i := 0; i < 5; i++ {
		input = append(input, record(
			fmt.Sprintf("r%d", i),
			fmt.Sprintf("h%d", i),
			"XLT"))
	}

	payloads, err := b.Build(input)
	require.NoError(t, err)
	require.Len(t, payloads, 3)

	for i, p := range payloads {
		assert.Equal(t, i+1, p.BatchNumber)
		assert.Equal(t, 3, p.TotalBatches)
	}
	assert.Equal(t, 2, payloads[0].RecordCount)
	assert.Equal(t, 2, payloads[1].RecordCount)
	assert.Equal(t, 1, payloads[2].RecordCount)
}

func TestBuilder_Build_Empty(t *testing.T) {
	b := NewBuilder(100)

	payloads, err := b.Build(nil)
	require.NoError(t, err)
	assert.Nil(t, payloads)
}

func TestNewBuilder_DefaultSize(t *testing.T) {
	b := NewBuilder(0)
	assert.Equal(t, DefaultBatchSize, b.batchSize)
}
