package client

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/identity"
	"github.com/lanewise/lanewise/internal/search"
	"github.com/lanewise/lanewise/internal/session"
	"github.com/spf13/cobra"
)

// WatchCmd creates the interactive watch command. Every line typed
// becomes a debounced query update; a line starting with "!" submits
// immediately; "q" quits. Typing faster than the debounce window
// supersedes the pending search instead of stacking requests.
func WatchCmd() *cobra.Command {
	var mode string
	var limit int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactive company search",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			saved, err := api.ListSaved(cmd.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not load saved companies: %v\n", err)
			}

			printer := &watchPrinter{saved: saved}
			controller := session.NewController(searchTransport(api), printer)

			fmt.Println("type to search, !<query> to submit immediately, q to quit")
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "q" {
					controller.Cancel()
					return nil
				}
				raw := search.RawFilter{Mode: mode, Limit: limit}
				if explicit := strings.TrimPrefix(line, "!"); explicit != line {
					raw.Query = strings.TrimSpace(explicit)
					controller.Submit(raw)
					continue
				}
				raw.Query = line
				controller.Update(raw)
			}
			controller.Cancel()
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Transport mode filter (air|ocean|other)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default 25)")

	return cmd
}

// searchTransport adapts the HTTP client to the session controller's
// transport contract. Context cancellation aborts the underlying call.
func searchTransport(api *APIClient) session.SearchFunc {
	return func(ctx context.Context, filter domain.SearchFilter) (*domain.SearchResultPage, error) {
		result, err := api.SearchCompanies(ctx, rawFromFilter(filter))
		if err != nil {
			return nil, err
		}
		return toDomainPage(result), nil
	}
}

func rawFromFilter(f domain.SearchFilter) search.RawFilter {
	raw := search.RawFilter{
		Query:    f.Query,
		Mode:     string(f.Mode),
		HSCodes:  f.HSCodes,
		Origins:  f.Origins,
		Dests:    f.Dests,
		Carriers: f.Carriers,
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	if f.DateRange != nil {
		raw.StartDate = f.DateRange.Start.Format(time.DateOnly)
		raw.EndDate = f.DateRange.End.Format(time.DateOnly)
	}
	return raw
}

func toDomainPage(result *SearchResult) *domain.SearchResultPage {
	page := &domain.SearchResultPage{
		Total:  result.Total,
		Limit:  result.Limit,
		Offset: result.Offset,
		Rows:   make([]domain.CompanyRoleAggregate, 0, len(result.Rows)),
	}
	for _, row := range result.Rows {
		agg := domain.CompanyRoleAggregate{
			CompanyKey:    row.CompanyKey,
			DisplayName:   row.DisplayName,
			Role:          domain.Role(row.Role),
			ShipmentCount: row.ShipmentCount,
		}
		if row.LastActivityDate != nil {
			agg.LastActivity, _ = time.Parse(time.DateOnly, *row.LastActivityDate)
		}
		for _, lane := range row.TopLanes {
			agg.TopLanes = append(agg.TopLanes, domain.LaneEntry{
				Lane:  domain.Lane{Origin: lane.Origin, Dest: lane.Dest},
				Count: lane.Count,
			})
		}
		for _, carrier := range row.TopCarriers {
			agg.TopCarriers = append(agg.TopCarriers, domain.TopNEntry{Value: carrier.Name, Count: carrier.Count})
		}
		for _, hs := range row.TopHsCodes {
			agg.TopHSCodes = append(agg.TopHSCodes, domain.TopNEntry{Value: hs.Code, Count: hs.Count})
		}
		page.Rows = append(page.Rows, agg)
	}
	return page
}

// watchPrinter renders session transitions, merging live rows with the
// locally saved companies by canonical key.
type watchPrinter struct {
	saved []SavedCompanyResult
}

func (p *watchPrinter) SearchStarted(seq uint64, filter domain.SearchFilter) {
	fmt.Printf("searching %q...\n", filter.Query)
}

func (p *watchPrinter) SearchCompleted(seq uint64, page *domain.SearchResultPage) {
	records := make([]identity.Record, 0, len(page.Rows)+len(p.saved))
	for _, row := range page.Rows {
		records = append(records, identity.Record{
			Identity: domain.CompanyIdentity{CanonicalKey: row.CompanyKey, DisplayName: row.DisplayName},
			Payload:  row,
		})
	}
	savedKeys := make(map[string]bool, len(p.saved))
	for _, s := range p.saved {
		id := identity.Resolve(s.SourceID, s.DisplayName)
		savedKeys[id.CanonicalKey] = true
		updated, _ := time.Parse(time.RFC3339, s.UpdatedAt)
		records = append(records, identity.Record{Identity: id, UpdatedAt: updated.Unix()})
	}

	merged := identity.Merge(records)
	fmt.Printf("%d companies (total %d)\n", len(page.Rows), page.Total)
	for _, rec := range merged {
		marker := " "
		if savedKeys[rec.Identity.CanonicalKey] {
			marker = "*"
		}
		row, live := rec.Payload.(domain.CompanyRoleAggregate)
		if !live {
			fmt.Printf("%s %s (saved, no activity in window)\n", marker, rec.Identity.DisplayName)
			continue
		}
		fmt.Printf("%s %s (%s)  shipments=%d\n", marker, row.DisplayName, row.Role, row.ShipmentCount)
	}
}

func (p *watchPrinter) SearchFailed(seq uint64, err error) {
	fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
}
