package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/normauto/vehicle-engine/internal/storage"
)

// newMigrateCmd creates the migrate subcommand.
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			spin := NewSpinner(fmt.Sprintf("migrating %s database", cfg.Database.Driver))
			spin.Start()

			db, err := storage.Open(cfg.Database)
			if err != nil {
				spin.Stop()
				return err
			}
			defer db.Close()

			err = storage.Migrate(ctx, db)
			spin.Stop()
			if err != nil {
				return err
			}

			Success("Migrations applied on %s", cfg.Database.Driver)
			return nil
		},
	}
	return cmd
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				_ = enc.Encode(map[string]string{
					"version": "0.1.0",
				})
				return
			}
			fmt.Println("vehicle-engine-cli v0.1.0")
		},
	}
}
