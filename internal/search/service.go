package search

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/identity"
	"github.com/lanewise/lanewise/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// ShipmentStore executes parameterized queries against the shipment
// store. The service owns query construction and aggregation; the
// store owns execution. No retry policy here: retries belong to the
// caller's transport, the aggregation contract stays pure.
type ShipmentStore interface {
	FetchShipments(ctx context.Context, q ParameterizedQuery) ([]domain.ShipmentRecord, error)
	FetchFilterOptions(ctx context.Context, q ParameterizedQuery) (*domain.FilterOptions, error)
}

// Service runs the company search pipeline: normalize, build, fetch,
// aggregate, rank, paginate.
type Service struct {
	store ShipmentStore
	saved identity.SavedCompanyStore
	now   func() time.Time
}

// NewService creates a search service. saved may be nil when no saved
// companies source is configured.
func NewService(store ShipmentStore, saved identity.SavedCompanyStore) *Service {
	return &Service{
		store: store,
		saved: saved,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Result is one completed search: the ranked page, the canonical keys
// of the caller's saved companies that appear in context, and an ID
// correlating logs with responses.
type Result struct {
	Page      domain.SearchResultPage
	SavedKeys map[string]bool
	SearchID  string
}

// Search runs one company search. Validation failures surface before
// any query is issued; store failures come back as a single opaque
// STORE_UNAVAILABLE error. Zero rows with total 0 is a success, not an
// error. The live query and the saved-company fetch run concurrently.
func (s *Service) Search(ctx context.Context, raw RawFilter, ownerID string) (*Result, error) {
	filter, err := NormalizeFilter(raw)
	if err != nil {
		return nil, err
	}

	searchID := uuid.NewString()
	ctx, span := telemetry.StartSpan(ctx, "search.companies", telemetry.SpanAttributes{
		Operation: "search",
		OwnerID:   ownerID,
		SearchID:  searchID,
	})
	defer span.End()

	q := BuildShipmentQuery(filter, s.now())

	var records []domain.ShipmentRecord
	var savedKeys map[string]bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.store.FetchShipments(gctx, q)
		return err
	})
	if s.saved != nil && ownerID != "" {
		g.Go(func() error {
			companies, err := s.saved.ListByOwner(gctx, ownerID)
			if err != nil {
				return err
			}
			savedKeys = make(map[string]bool, len(companies))
			for _, c := range companies {
				savedKeys[identity.Resolve(c.SourceID, c.DisplayName).CanonicalKey] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, storeFailure(err)
	}

	page := Paginate(Aggregate(records, filter.Query), filter.Limit, filter.Offset)

	return &Result{
		Page:      page,
		SavedKeys: savedKeys,
		SearchID:  searchID,
	}, nil
}

// FilterOptions returns the distinct filter vocabulary inside the
// default lookback window.
func (s *Service) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	ctx, span := telemetry.StartSpan(ctx, "search.filter_options", telemetry.SpanAttributes{Operation: "filter_options"})
	defer span.End()

	opts, err := s.store.FetchFilterOptions(ctx, BuildFilterOptionsQuery(s.now()))
	if err != nil {
		span.SetError(err)
		return nil, storeFailure(err)
	}
	return opts, nil
}

// storeFailure wraps store-layer errors opaquely. Cancellation passes
// through as CANCELLED so callers can tell routine aborts from real
// failures; nothing else leaks query text or driver detail.
func storeFailure(err error) error {
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return domain.ErrSearchCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrSearchTimedOut
	}
	return domain.NewDomainErrorWithCause(domain.ErrCodeStoreUnavailable, "shipment store unavailable", err)
}
