// Package upload slices normalized records into deduplicated payloads
// sized for the downstream ingestion endpoint.
package upload

import (
	"encoding/json"
	"fmt"

	"github.com/normauto/vehicle-engine/internal/normalize"
)

// DefaultBatchSize is the record count per payload when the caller does
// not override it.
const DefaultBatchSize = 500

// Payload is one upload unit. VehiclesJSON is the serialized record
// slice, ready to post as-is.
type Payload struct {
	VehiclesJSON string `json:"vehiculos_json"`
	BatchNumber  int    `json:"batch_number"`
	TotalBatches int    `json:"total_batches"`
	RecordCount  int    `json:"record_count"`
}

// Builder deduplicates and slices normalized records.
type Builder struct {
	batchSize int
}

// NewBuilder returns a builder with the given slice size; sizes below 1
// fall back to DefaultBatchSize.
func NewBuilder(batchSize int) *Builder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Builder{batchSize: batchSize}
}

// Build deduplicates records by commercial hash plus cleaned version
// (first occurrence wins) and slices the survivors into payloads. The
// payload count is fixed before serialization so every payload carries
// the final total.
func (b *Builder) Build(records []normalize.NormalizedVehicleRecord) ([]Payload, error) {
	seen := make(map[string]struct{}, len(records))
	unique := make([]normalize.NormalizedVehicleRecord, 0, len(records))
	for _, r := range records {
		key := r.CommercialHash + "|" + r.VersionClean
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	total := (len(unique) + b.batchSize - 1) / b.batchSize
	payloads := make([]Payload, 0, total)
	for i := 0; i < total; i++ {
		lo := i * b.batchSize
		hi := lo + b.batchSize
		if hi > len(unique) {
			hi = len(unique)
		}
		slice := unique[lo:hi]
		data, err := json.Marshal(slice)
		if err != nil {
			return nil, fmt.Errorf("serializing batch %d/%d: %w", i+1, total, err)
		}
		payloads = append(payloads, Payload{
			VehiclesJSON: string(data),
			BatchNumber:  i + 1,
			TotalBatches: total,
			RecordCount:  len(slice),
		})
	}
	return payloads, nil
}
