package normalize

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BatchResult is the outcome of one batch run. Records and Errors
// together account for every input; Records preserves input order.
type BatchResult struct {
	JobID    string
	Carrier  string
	Records  []NormalizedVehicleRecord
	Errors   []ProcessingError
	Duration time.Duration
}

// BatchProcessor fans a slice of raw records across a worker pool.
// Records are independent, so workers share nothing but the compiled
// engine.
type BatchProcessor struct {
	engine     *Engine
	maxWorkers int
	logger     zerolog.Logger

	// OnProgress, when set, is called with the running count of
	// completed records. Must be safe for concurrent use.
	OnProgress func(done int64)
}

// NewBatchProcessor wraps an engine with a worker pool. maxWorkers
// below 1 falls back to 4.
func NewBatchProcessor(engine *Engine, maxWorkers int, logger zerolog.Logger) *BatchProcessor {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &BatchProcessor{
		engine:     engine,
		maxWorkers: maxWorkers,
		logger:     logger.With().Str("component", "batch").Str("carrier", engine.Profile().ID).Logger(),
	}
}

// Process normalizes every record in the batch concurrently while
// keeping successful output in input order. A failed record never
// affects its neighbors. Cancelling the context stops dispatch; records
// already picked up by a worker still finish.
func (bp *BatchProcessor) Process(ctx context.Context, records []RawVehicleRecord) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{
		JobID:   uuid.NewString(),
		Carrier: bp.engine.Profile().ID,
	}
	if len(records) == 0 {
		return result, nil
	}

	type outcome struct {
		record *NormalizedVehicleRecord
		err    *ProcessingError
	}

	type workItem struct {
		index  int
		record RawVehicleRecord
	}

	workChan := make(chan workItem)
	outcomes := make([]outcome, len(records))
	var wg sync.WaitGroup
	var completed atomic.Int64

	workers := bp.maxWorkers
	if workers > len(records) {
		workers = len(records)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workChan {
				record, perr := bp.engine.Process(item.record)
				outcomes[item.index] = outcome{record: record, err: perr}
				if bp.OnProgress != nil {
					bp.OnProgress(completed.Add(1))
				}
			}
		}()
	}

dispatch:
	for i, record := range records {
		select {
		case workChan <- workItem{index: i, record: record}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(workChan)
	wg.Wait()

	for _, o := range outcomes {
		switch {
		case o.record != nil:
			result.Records = append(result.Records, *o.record)
		case o.err != nil:
			result.Errors = append(result.Errors, *o.err)
		}
	}
	result.Duration = time.Since(start)

	bp.logger.Info().
		Str("job_id", result.JobID).
		Int("total", len(records)).
		Int("ok", len(result.Records)).
		Int("failed", len(result.Errors)).
		Dur("duration", result.Duration).
		Msg("batch processed")

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
