package domain

import (
	"math"
	"time"
)

// Role is the side a company played on a shipment.
type Role string

const (
	RoleShipper   Role = "shipper"
	RoleConsignee Role = "consignee"
)

// TopNEntry is one row of a group's frequency table. Counts stay exact
// throughout aggregation; the percentage share is derived only when a
// page is serialized, so rounding never compounds across pages.
type TopNEntry struct {
	Value string
	Count int
}

// SharePct returns the entry's share of total as a percentage rounded
// to one decimal. Presentation-time only.
func (e TopNEntry) SharePct(total int) float64 {
	return sharePct(e.Count, total)
}

// LaneEntry is one lane row of a group's frequency table.
type LaneEntry struct {
	Lane  Lane
	Count int
}

// SharePct returns the lane's share of total, rounded to one decimal.
func (e LaneEntry) SharePct(total int) float64 {
	return sharePct(e.Count, total)
}

func sharePct(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// TopNLimit caps every top-N summary list.
const TopNLimit = 5

// CompanyRoleAggregate is one search result: a company in one role,
// folded from its constituent shipment rows. Recomputed per query,
// never persisted.
type CompanyRoleAggregate struct {
	CompanyKey    string
	DisplayName   string
	Role          Role
	ShipmentCount int
	LastActivity  time.Time
	TopLanes      []LaneEntry
	TopCarriers   []TopNEntry
	TopHSCodes    []TopNEntry
}

// SearchResultPage is one page of ranked aggregates. Total counts
// aggregate groups over the whole filtered set, not shipment rows and
// not just this page.
type SearchResultPage struct {
	Total  int
	Rows   []CompanyRoleAggregate
	Limit  int
	Offset int
}

// FilterOptions is the distinct filter vocabulary available inside the
// lookback window, for populating filter UI. No ranking applied.
type FilterOptions struct {
	Modes    []string
	Origins  []string
	Dests    []string
	Carriers []string
}
