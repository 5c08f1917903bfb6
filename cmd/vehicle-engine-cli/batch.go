package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/normauto/vehicle-engine/internal/normalize"
	"github.com/normauto/vehicle-engine/internal/upload"
)

// newBatchCmd creates the batch subcommand.
func newBatchCmd() *cobra.Command {
	var (
		input     string
		output    string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Build deduplicated upload payloads from normalized output",
		Long: `Batch reads normalized records as NDJSON, deduplicates them by
commercial hash plus cleaned version, and slices the survivors into
upload payloads carrying batch_number and total_batches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readNormalized(input)
			if err != nil {
				return err
			}

			if batchSize <= 0 {
				batchSize = cfg.Upload.BatchSize
			}
			builder := upload.NewBuilder(batchSize)
			payloads, err := builder.Build(records)
			if err != nil {
				return fmt.Errorf("build payloads: %w", err)
			}

			w, closeFn, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeFn()

			enc := json.NewEncoder(w)
			for i := range payloads {
				if err := enc.Encode(&payloads[i]); err != nil {
					return fmt.Errorf("write payload: %w", err)
				}
			}

			if outputJSON {
				stdout := json.NewEncoder(os.Stdout)
				stdout.SetIndent("", "  ")
				return stdout.Encode(map[string]interface{}{
					"input":    len(records),
					"payloads": len(payloads),
				})
			}

			Success("Built %d payloads from %d records", len(payloads), len(records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "normalized NDJSON path, - for stdin (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "payload NDJSON path, - for stdout")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "records per payload (default: from config)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func readNormalized(path string) ([]normalize.NormalizedVehicleRecord, error) {
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

	var records []normalize.NormalizedVehicleRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec normalize.NormalizedVehicleRecord
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
