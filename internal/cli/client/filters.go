package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// FilterOptionsResult is the filter options API payload.
type FilterOptionsResult struct {
	Modes    []string `json:"modes"`
	Origins  []string `json:"origins"`
	Dests    []string `json:"dests"`
	Carriers []string `json:"carriers"`
}

// FiltersCmd creates the filters command.
func FiltersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Show available filter values",
		Long:  "Lists the distinct transport modes, origins, destinations and carriers available for filtering.",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), "/companies/filters")
			if err != nil {
				return err
			}

			var opts FilterOptionsResult
			if err := json.Unmarshal(resp.Data, &opts); err != nil {
				return fmt.Errorf("failed to parse filter options: %w", err)
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			if outputJSON {
				payload, _ := json.MarshalIndent(opts, "", "  ")
				fmt.Println(string(payload))
				return nil
			}

			fmt.Printf("modes:    %s\n", strings.Join(opts.Modes, ", "))
			fmt.Printf("origins:  %s\n", strings.Join(opts.Origins, ", "))
			fmt.Printf("dests:    %s\n", strings.Join(opts.Dests, ", "))
			fmt.Printf("carriers: %s\n", strings.Join(opts.Carriers, ", "))
			return nil
		},
	}
}
