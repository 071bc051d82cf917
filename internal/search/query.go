package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/lanewise/lanewise/internal/domain"
)

// ParameterizedQuery is SQL text plus its bound arguments. Filter
// values only ever travel through Args; the text contains nothing but
// column names and $n placeholders, so interpolation of user input is
// structurally impossible.
type ParameterizedQuery struct {
	SQL  string
	Args []any
}

// queryBuilder accumulates WHERE predicates with positional
// parameters.
type queryBuilder struct {
	predicates []string
	args       []any
}

func (b *queryBuilder) bind(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) where(predicate string) {
	b.predicates = append(b.predicates, predicate)
}

// likeEscaper neutralizes LIKE metacharacters in free text so a query
// of "100%" matches the literal string, not a prefix. Binding already
// rules out injection; this is about match semantics.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// whereIn adds an IN predicate over lowercased values so matching is
// case-insensitive; company and carrier names arrive with inconsistent
// casing across sources.
func (b *queryBuilder) whereIn(column string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = b.bind(strings.ToLower(v))
	}
	b.where(fmt.Sprintf("lower(%s) IN (%s)", column, strings.Join(placeholders, ", ")))
}

// BuildShipmentQuery translates a normalized filter into the
// parameterized row-fetch query the aggregation pipeline folds over.
// Pure: no store connection, no side effects. When the filter carries
// no date range the default lookback window (anchored at now) is
// applied so every query is bounded.
func BuildShipmentQuery(f domain.SearchFilter, now time.Time) ParameterizedQuery {
	b := &queryBuilder{}

	r := f.EffectiveRange(now)
	b.where(fmt.Sprintf("snapshot_date >= %s", b.bind(r.Start)))
	b.where(fmt.Sprintf("snapshot_date <= %s", b.bind(r.End)))

	if f.Mode != "" {
		b.where(fmt.Sprintf("mode = %s", b.bind(string(f.Mode))))
	}
	if f.Query != "" {
		needle := b.bind("%" + escapeLike(strings.ToLower(f.Query)) + "%")
		b.where(fmt.Sprintf("(lower(shipper_name) LIKE %s OR lower(consignee_name) LIKE %s)", needle, needle))
	}
	b.whereIn("hs_code", f.HSCodes)
	b.whereIn("origin_country", f.Origins)
	b.whereIn("dest_country", f.Dests)
	b.whereIn("carrier", f.Carriers)

	sql := `SELECT snapshot_date, mode, hs_code, origin_country, dest_country, carrier, shipper_name, consignee_name
FROM shipments
WHERE ` + strings.Join(b.predicates, "\n  AND ")

	return ParameterizedQuery{SQL: sql, Args: b.args}
}

// BuildFilterOptionsQuery returns the distinct-values query backing
// the filter options endpoint, bounded by the same default lookback.
func BuildFilterOptionsQuery(now time.Time) ParameterizedQuery {
	b := &queryBuilder{}
	since := b.bind(now.Add(-domain.DefaultLookback))

	sql := fmt.Sprintf(`SELECT DISTINCT mode, origin_country, dest_country, carrier
FROM shipments
WHERE snapshot_date >= %s`, since)

	return ParameterizedQuery{SQL: sql, Args: b.args}
}
