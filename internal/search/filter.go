package search

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lanewise/lanewise/internal/domain"
)

// RawFilter is the unvalidated filter shape arriving from the UI or
// API. Zero values mean "not filtered". The validate tag bounds mirror
// domain.MaxQueryLength and domain.MaxLimit; tags cannot reference
// constants.
type RawFilter struct {
	Query     string   `json:"q,omitempty" validate:"max=120"`
	Mode      string   `json:"mode,omitempty"`
	HSCodes   []string `json:"hs,omitempty"`
	Origins   []string `json:"origin,omitempty"`
	Dests     []string `json:"dest,omitempty"`
	Carriers  []string `json:"carrier,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Limit     int      `json:"limit,omitempty" validate:"gte=0,lte=100"`
	Offset    int      `json:"offset,omitempty" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

const dateLayout = "2006-01-02"

// NormalizeFilter validates and canonicalizes a raw filter into a
// bounded SearchFilter. Bounds violations fail with an INVALID_FILTER
// domain error; a misspelled mode degrades to "no mode filter" and
// oversized value lists are clamped, not rejected.
func NormalizeFilter(raw RawFilter) (domain.SearchFilter, error) {
	// Surrounding whitespace never counts against the query cap.
	raw.Query = strings.TrimSpace(raw.Query)
	if err := validate.Struct(raw); err != nil {
		return domain.SearchFilter{}, invalidFilter(err)
	}

	limit := raw.Limit
	if limit == 0 {
		limit = domain.DefaultLimit
	}

	dateRange, err := parseDateRange(raw.StartDate, raw.EndDate)
	if err != nil {
		return domain.SearchFilter{}, err
	}

	mode, _ := domain.ParseTransportMode(strings.ToLower(strings.TrimSpace(raw.Mode)))

	f := domain.SearchFilter{
		Query:     raw.Query,
		Mode:      mode,
		HSCodes:   normalizeValues(raw.HSCodes),
		Origins:   normalizeValues(raw.Origins),
		Dests:     normalizeValues(raw.Dests),
		Carriers:  normalizeValues(raw.Carriers),
		DateRange: dateRange,
		Limit:     limit,
		Offset:    raw.Offset,
	}
	return f, nil
}

// normalizeValues trims entries, drops empties, deduplicates
// preserving first occurrence, and clamps to the fan-out bound.
func normalizeValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == domain.MaxFilterValues {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseDateRange(start, end string) (*domain.DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}

	var r domain.DateRange
	var err error
	if start != "" {
		r.Start, err = time.Parse(dateLayout, start)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInvalidFilter, "invalid start date", err)
		}
	}
	if end != "" {
		r.End, err = time.Parse(dateLayout, end)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInvalidFilter, "invalid end date", err)
		}
	} else {
		r.End = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if start == "" {
		r.Start = r.End.Add(-domain.DefaultLookback)
	}

	if r.Start.After(r.End) {
		return nil, domain.ErrInvertedDateRange
	}
	return &r, nil
}

// invalidFilter maps validator failures onto the filter error
// taxonomy, keeping field-specific messages where one field is at
// fault.
func invalidFilter(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.NewDomainErrorWithCause(domain.ErrCodeInvalidFilter, "filter could not be validated", err)
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Query":
			return domain.ErrQueryTooLong
		case "Limit":
			return domain.ErrLimitOutOfBounds
		case "Offset":
			return domain.ErrOffsetNegative
		}
	}
	return domain.NewDomainErrorWithCause(domain.ErrCodeInvalidFilter, "filter failed validation", err)
}
