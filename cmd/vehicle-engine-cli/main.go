// Package main provides the Vehicle Engine CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/normauto/vehicle-engine/internal/carrier"
	"github.com/normauto/vehicle-engine/internal/config"
	"github.com/normauto/vehicle-engine/internal/observability"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// Configuration and logger
	cfg      *config.Config
	logger   zerolog.Logger
	registry *carrier.Registry
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "vehicle-engine-cli",
	Short: "Vehicle Engine CLI for normalizing carrier vehicle catalogs",
	Long: `Vehicle Engine CLI normalizes insurance-carrier vehicle descriptions
into one canonical shape with a stable commercial identity hash.

Use this tool to:
- Normalize carrier NDJSON feeds against a carrier profile
- Build deduplicated upload payloads from normalized output
- Inspect the configured carrier profiles
- Run database migrations

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logFormat := "console"
		if outputJSON {
			logFormat = "json"
		}
		level := cfg.Observability.LogLevel
		if !verbose && level == "debug" {
			level = "info"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      logFormat,
			ServiceName: "vehicle-engine-cli",
		})

		if cfg.Engine.ProfilesDir != "" {
			registry, err = carrier.NewRegistryFromDir(cfg.Engine.ProfilesDir)
		} else {
			registry, err = carrier.NewRegistry()
		}
		if err != nil {
			return fmt.Errorf("load carrier profiles: %w", err)
		}

		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newNormalizeCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCarriersCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
