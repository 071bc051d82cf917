package domain

import "time"

// Filter bounds. DefaultLookback is the window applied when a search
// carries no explicit date range, so unfiltered searches stay
// cost-predictable. It is the single source of that default; call
// sites must not re-derive their own.
const (
	MaxQueryLength  = 120
	MaxFilterValues = 50
	DefaultLimit    = 25
	MaxLimit        = 100
	DefaultLookback = 180 * 24 * time.Hour
)

// DateRange is a closed interval over snapshot dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SearchFilter is a normalized, bounded search request. Construct via
// search.NormalizeFilter; a hand-built value skips validation.
type SearchFilter struct {
	Query     string
	Mode      TransportMode
	HSCodes   []string
	Origins   []string
	Dests     []string
	Carriers  []string
	DateRange *DateRange
	Limit     int
	Offset    int
}

// EffectiveRange returns the filter's date range, substituting the
// default lookback window (ending at now) when none was given.
func (f SearchFilter) EffectiveRange(now time.Time) DateRange {
	if f.DateRange != nil {
		return *f.DateRange
	}
	return DateRange{Start: now.Add(-DefaultLookback), End: now}
}
