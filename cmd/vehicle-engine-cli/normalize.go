package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/normauto/vehicle-engine/internal/normalize"
	"github.com/normauto/vehicle-engine/internal/storage"
)

// newNormalizeCmd creates the normalize subcommand.
func newNormalizeCmd() *cobra.Command {
	var (
		carrierID string
		input     string
		output    string
		errorsOut string
		workers   int
		persist   bool
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a carrier NDJSON feed",
		Long: `Normalize reads raw vehicle records as NDJSON (one JSON object per
line), runs them through the carrier's normalization profile, and writes
normalized records as NDJSON. Failed records go to the errors file with
their error code and the original record attached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			profile, err := registry.Get(carrierID)
			if err != nil {
				return err
			}

			records, err := readRecords(input)
			if err != nil {
				return err
			}

			engine, err := normalize.NewEngine(profile, logger)
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}
			if workers <= 0 {
				workers = cfg.Engine.MaxWorkers
			}
			processor := normalize.NewBatchProcessor(engine, workers, logger)

			bar := NewProgressBar(int64(len(records)), "normalizing")
			processor.OnProgress = bar.Set
			result, err := processor.Process(ctx, records)
			if err != nil {
				return fmt.Errorf("batch processing: %w", err)
			}
			bar.Finish()

			if err := writeRecords(output, result.Records); err != nil {
				return err
			}
			if errorsOut != "" && len(result.Errors) > 0 {
				if err := writeErrors(errorsOut, result.Errors); err != nil {
					return err
				}
			}

			if persist {
				if err := persistResult(ctx, profile.ID, result); err != nil {
					return err
				}
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"jobId":    result.JobID,
					"carrier":  result.Carrier,
					"total":    len(records),
					"ok":       len(result.Records),
					"failed":   len(result.Errors),
					"duration": result.Duration.String(),
				})
			}

			Success("Normalized %d/%d records for %s (job %s, %s)",
				len(result.Records), len(records), profile.ID, result.JobID, result.Duration)
			if len(result.Errors) > 0 {
				Warning("%d records failed; see %s", len(result.Errors), errorsOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&carrierID, "carrier", "", "carrier profile ID (required)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "input NDJSON path, - for stdin (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output NDJSON path, - for stdout")
	cmd.Flags().StringVar(&errorsOut, "errors", "errors.ndjson", "failed-record NDJSON path")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (default: from config)")
	cmd.Flags().BoolVar(&persist, "persist", false, "upsert normalized records into the database")

	_ = cmd.MarkFlagRequired("carrier")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// readRecords loads NDJSON records from a file or stdin.
func readRecords(path string) ([]normalize.RawVehicleRecord, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []normalize.RawVehicleRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec normalize.RawVehicleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parse input line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return records, nil
}

func writeRecords(path string, records []normalize.NormalizedVehicleRecord) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func writeErrors(path string, errs []normalize.ProcessingError) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	enc := json.NewEncoder(w)
	for i := range errs {
		if err := enc.Encode(&errs[i]); err != nil {
			return fmt.Errorf("write errors: %w", err)
		}
	}
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "-" || path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	return bw, func() {
		_ = bw.Flush()
		_ = f.Close()
	}, nil
}

func persistResult(ctx context.Context, carrierID string, result *normalize.BatchResult) error {
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		return err
	}

	vehicles := storage.NewVehicleRepository(db)
	if err := vehicles.UpsertBatch(ctx, result.Records); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	failures := storage.NewFailureRepository(db)
	if err := failures.SaveBatch(ctx, carrierID, result.Errors); err != nil {
		return fmt.Errorf("persist failures: %w", err)
	}
	return nil
}
