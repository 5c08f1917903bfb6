package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// newCarriersCmd creates the carriers subcommand.
func newCarriersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carriers",
		Short: "List the configured carrier profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := registry.IDs()

			if outputJSON {
				type profileSummary struct {
					ID           string `json:"id"`
					Name         string `json:"name"`
					YearMin      int    `json:"year_min"`
					YearMax      int    `json:"year_max"`
					Stoplist     int    `json:"stoplist_tokens"`
					Transmission int    `json:"transmission_codes"`
				}
				summaries := make([]profileSummary, 0, len(ids))
				for _, id := range ids {
					p, err := registry.Get(id)
					if err != nil {
						return err
					}
					summaries = append(summaries, profileSummary{
						ID:           p.ID,
						Name:         p.Name,
						YearMin:      p.YearMin,
						YearMax:      p.YearMax,
						Stoplist:     len(p.Stoplist),
						Transmission: len(p.TransmissionMap),
					})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			header := color.New(color.FgCyan, color.Bold)
			header.Printf("%-12s %-24s %-11s %9s %13s\n", "ID", "NAME", "YEARS", "STOPLIST", "TRANSMISSIONS")
			for _, id := range ids {
				p, err := registry.Get(id)
				if err != nil {
					return err
				}
				fmt.Printf("%-12s %-24s %4d-%-6d %9d %13d\n",
					p.ID, p.Name, p.YearMin, p.YearMax, len(p.Stoplist), len(p.TransmissionMap))
			}
			return nil
		},
	}
	return cmd
}
