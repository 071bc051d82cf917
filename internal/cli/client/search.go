package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lanewise/lanewise/internal/search"
	"github.com/spf13/cobra"
)

// LaneResult is one origin→destination pair in a company summary.
type LaneResult struct {
	Origin   string  `json:"origin"`
	Dest     string  `json:"dest"`
	Count    int     `json:"count"`
	SharePct float64 `json:"sharePct"`
}

type CarrierResult struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	SharePct float64 `json:"sharePct"`
}

type HSCodeResult struct {
	Code     string  `json:"code"`
	Count    int     `json:"count"`
	SharePct float64 `json:"sharePct"`
}

// CompanyRow is one company-role aggregate in the search response.
type CompanyRow struct {
	CompanyKey       string          `json:"companyKey"`
	DisplayName      string          `json:"displayName"`
	Role             string          `json:"role"`
	ShipmentCount    int             `json:"shipmentCount"`
	LastActivityDate *string         `json:"lastActivityDate"`
	TopLanes         []LaneResult    `json:"topLanes"`
	TopCarriers      []CarrierResult `json:"topCarriers"`
	TopHsCodes       []HSCodeResult  `json:"topHsCodes"`
	Saved            bool            `json:"saved,omitempty"`
}

// SearchResult is the search API response payload.
type SearchResult struct {
	Total    int          `json:"total"`
	Rows     []CompanyRow `json:"rows"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
	SearchID string       `json:"search_id"`
}

// SearchCompanies issues one company search. Honors ctx cancellation.
func (c *APIClient) SearchCompanies(ctx context.Context, raw search.RawFilter) (*SearchResult, error) {
	resp, err := c.Post(ctx, "/companies/search", raw)
	if err != nil {
		return nil, err
	}
	var result SearchResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}
	return &result, nil
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var raw search.RawFilter

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search companies",
		Long:  "Searches company-level shipment aggregates by name, lane, carrier, HS code and date range.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				raw.Query = args[0]
			}
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			result, err := api.SearchCompanies(cmd.Context(), raw)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if outputJSON {
				payload, _ := json.MarshalIndent(result, "", "  ")
				fmt.Println(string(payload))
				return nil
			}
			printSearchResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&raw.Mode, "mode", "", "Transport mode (air|ocean|other)")
	cmd.Flags().StringSliceVar(&raw.HSCodes, "hs", nil, "HS code filters")
	cmd.Flags().StringSliceVar(&raw.Origins, "origin", nil, "Origin country filters")
	cmd.Flags().StringSliceVar(&raw.Dests, "dest", nil, "Destination country filters")
	cmd.Flags().StringSliceVar(&raw.Carriers, "carrier", nil, "Carrier filters")
	cmd.Flags().StringVar(&raw.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&raw.EndDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&raw.Limit, "limit", "n", 0, "Maximum number of results (default 25)")
	cmd.Flags().IntVar(&raw.Offset, "offset", 0, "Result offset for paging")

	return cmd
}

func printSearchResult(result *SearchResult) {
	if len(result.Rows) == 0 {
		fmt.Println("No companies found.")
		return
	}

	fmt.Printf("%d of %d companies (offset %d)\n\n", len(result.Rows), result.Total, result.Offset)
	for _, row := range result.Rows {
		marker := " "
		if row.Saved {
			marker = "*"
		}
		last := "-"
		if row.LastActivityDate != nil {
			last = *row.LastActivityDate
		}
		fmt.Printf("%s %s (%s)  shipments=%d  last=%s\n", marker, row.DisplayName, row.Role, row.ShipmentCount, last)
		if len(row.TopLanes) > 0 {
			lanes := make([]string, 0, len(row.TopLanes))
			for _, lane := range row.TopLanes {
				lanes = append(lanes, fmt.Sprintf("%s→%s (%.1f%%)", lane.Origin, lane.Dest, lane.SharePct))
			}
			fmt.Printf("    lanes: %s\n", strings.Join(lanes, ", "))
		}
		if len(row.TopCarriers) > 0 {
			carriers := make([]string, 0, len(row.TopCarriers))
			for _, carrier := range row.TopCarriers {
				carriers = append(carriers, fmt.Sprintf("%s (%.1f%%)", carrier.Name, carrier.SharePct))
			}
			fmt.Printf("    carriers: %s\n", strings.Join(carriers, ", "))
		}
	}
}
