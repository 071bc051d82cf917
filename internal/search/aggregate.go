package search

import (
	"sort"
	"strings"
	"time"

	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/identity"
)

// groupAccumulator folds the observations of one (company, role)
// group. Frequency tables are scoped to the group's own observations,
// never the global row set.
type groupAccumulator struct {
	key          string
	displayName  string
	role         domain.Role
	count        int
	lastActivity time.Time
	lanes        map[domain.Lane]int
	carriers     map[string]int
	hsCodes      map[string]int
}

func newGroupAccumulator(key, displayName string, role domain.Role) *groupAccumulator {
	return &groupAccumulator{
		key:         key,
		displayName: displayName,
		role:        role,
		lanes:       make(map[domain.Lane]int),
		carriers:    make(map[string]int),
		hsCodes:     make(map[string]int),
	}
}

func (g *groupAccumulator) observe(s domain.ShipmentRecord) {
	g.count++
	if s.SnapshotDate.After(g.lastActivity) {
		g.lastActivity = s.SnapshotDate
	}
	if s.OriginCountry != "" || s.DestCountry != "" {
		g.lanes[s.Lane()]++
	}
	if s.Carrier != "" {
		g.carriers[s.Carrier]++
	}
	if s.HSCode != "" {
		g.hsCodes[s.HSCode]++
	}
}

func (g *groupAccumulator) aggregate() domain.CompanyRoleAggregate {
	return domain.CompanyRoleAggregate{
		CompanyKey:    g.key,
		DisplayName:   g.displayName,
		Role:          g.role,
		ShipmentCount: g.count,
		LastActivity:  g.lastActivity,
		TopLanes:      topLanes(g.lanes, domain.TopNLimit),
		TopCarriers:   topN(g.carriers, domain.TopNLimit),
		TopHSCodes:    topN(g.hsCodes, domain.TopNLimit),
	}
}

// topN ranks a frequency table by count descending, ties broken by
// lexicographically smallest value. The tie-break makes repeated
// queries over unchanged data return identical lists regardless of
// underlying row order.
func topN(freq map[string]int, n int) []domain.TopNEntry {
	if len(freq) == 0 {
		return nil
	}
	entries := make([]domain.TopNEntry, 0, len(freq))
	for value, count := range freq {
		entries = append(entries, domain.TopNEntry{Value: value, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// topLanes is topN over lane pairs. Ties break on origin then dest so
// the order never depends on how a lane would render as text.
func topLanes(freq map[domain.Lane]int, n int) []domain.LaneEntry {
	if len(freq) == 0 {
		return nil
	}
	entries := make([]domain.LaneEntry, 0, len(freq))
	for lane, count := range freq {
		entries = append(entries, domain.LaneEntry{Lane: lane, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		if entries[i].Lane.Origin != entries[j].Lane.Origin {
			return entries[i].Lane.Origin < entries[j].Lane.Origin
		}
		return entries[i].Lane.Dest < entries[j].Lane.Dest
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

type groupKey struct {
	company string
	role    domain.Role
}

// Aggregate expands each shipment into up to two role-tagged
// observations (shipper side, consignee side), groups by normalized
// company name and role, and folds per-group metrics. A shipment with
// both parties populated lands in two groups; that is the point, a
// company can rank as shipper on one lane and consignee on another.
//
// A non-empty query restricts observations to the party whose name
// matches it. The store filter only narrows to shipments where either
// side matches, so without this gate every counterparty of a matching
// shipment would surface as its own result row.
func Aggregate(records []domain.ShipmentRecord, query string) []domain.CompanyRoleAggregate {
	groups := make(map[groupKey]*groupAccumulator)
	needle := strings.ToLower(strings.TrimSpace(query))

	observe := func(name string, role domain.Role, s domain.ShipmentRecord) {
		if strings.TrimSpace(name) == "" {
			return
		}
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			return
		}
		id := identity.Resolve("", name)
		k := groupKey{company: id.CanonicalKey, role: role}
		g, ok := groups[k]
		if !ok {
			g = newGroupAccumulator(id.CanonicalKey, id.DisplayName, role)
			groups[k] = g
		}
		g.observe(s)
	}

	for _, s := range records {
		observe(s.ShipperName, domain.RoleShipper, s)
		observe(s.ConsigneeName, domain.RoleConsignee, s)
	}

	out := make([]domain.CompanyRoleAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.aggregate())
	}
	Rank(out)
	return out
}

// Rank orders aggregates by shipment count descending, then last
// activity descending, then company key ascending, then role ascending.
// The trailing tie-breaks give a total order, which is what keeps
// offset pagination stable.
func Rank(aggs []domain.CompanyRoleAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		a, b := aggs[i], aggs[j]
		if a.ShipmentCount != b.ShipmentCount {
			return a.ShipmentCount > b.ShipmentCount
		}
		if !a.LastActivity.Equal(b.LastActivity) {
			return a.LastActivity.After(b.LastActivity)
		}
		if a.CompanyKey != b.CompanyKey {
			return a.CompanyKey < b.CompanyKey
		}
		return a.Role < b.Role
	})
}

// Paginate applies limit/offset over ranked aggregates. Total counts
// the full grouped set; a window beyond the end yields empty rows, not
// an error.
func Paginate(aggs []domain.CompanyRoleAggregate, limit, offset int) domain.SearchResultPage {
	page := domain.SearchResultPage{
		Total:  len(aggs),
		Limit:  limit,
		Offset: offset,
		Rows:   []domain.CompanyRoleAggregate{},
	}
	if offset >= len(aggs) {
		return page
	}
	end := offset + limit
	if end > len(aggs) {
		end = len(aggs)
	}
	page.Rows = aggs[offset:end]
	return page
}
