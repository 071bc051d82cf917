// Package identity derives canonical company keys and deduplicates
// company records merged from heterogeneous sources.
package identity

import (
	"context"
	"strings"

	"github.com/lanewise/lanewise/internal/domain"
	"golang.org/x/text/cases"
)

// SavedCompanyStore is the locally saved companies collaborator.
// Injected explicitly so the resolver stays testable in isolation.
type SavedCompanyStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.SavedCompany, error)
}

var folder = cases.Fold()

// NormalizeName lowercases (Unicode case fold), trims, and collapses
// internal whitespace. "Acme Corp", "ACME CORP " and "acme  corp" all
// normalize to "acme corp".
func NormalizeName(name string) string {
	folded := folder.String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(folded), " ")
}

// Resolve computes a company's canonical key. A store-assigned ID is
// used verbatim when present; otherwise the key is derived from the
// name. Idempotent: resolving an already-canonical key is a no-op.
func Resolve(sourceID, rawName string) domain.CompanyIdentity {
	key := sourceID
	if key == "" {
		key = NormalizeName(rawName)
	}
	return domain.CompanyIdentity{
		CanonicalKey: key,
		DisplayName:  strings.Join(strings.Fields(strings.TrimSpace(rawName)), " "),
		SourceID:     sourceID,
	}
}

// Record is a company-shaped record from one of the merged sources.
type Record struct {
	Identity  domain.CompanyIdentity
	UpdatedAt int64
	Payload   any
}

// Merge deduplicates records sharing a canonical key. Precedence when
// two records collide: a record carrying a store-assigned identifier
// wins over a name-derived one; when both carry identifiers the most
// recently updated wins. Input order is otherwise preserved (first
// occurrence keeps its position).
func Merge(records []Record) []Record {
	out := make([]Record, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		key := rec.Identity.CanonicalKey
		at, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, rec)
			continue
		}
		if wins(rec, out[at]) {
			out[at] = rec
		}
	}
	return out
}

func wins(candidate, incumbent Record) bool {
	candID := candidate.Identity.SourceID != ""
	incID := incumbent.Identity.SourceID != ""
	switch {
	case candID && !incID:
		return true
	case !candID && incID:
		return false
	case candID && incID:
		return candidate.UpdatedAt > incumbent.UpdatedAt
	default:
		return false
	}
}
