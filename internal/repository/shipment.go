package repository

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/search"
)

type dbtx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ShipmentRepository executes parameterized search queries against the
// shipments table. It never builds query text itself; text and args
// arrive together from the query builder.
type ShipmentRepository struct {
	db dbtx
}

func NewShipmentRepository(pool *pgxpool.Pool) *ShipmentRepository {
	return &ShipmentRepository{db: pool}
}

func (r *ShipmentRepository) FetchShipments(ctx context.Context, q search.ParameterizedQuery) ([]domain.ShipmentRecord, error) {
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ShipmentRecord
	for rows.Next() {
		var rec domain.ShipmentRecord
		var mode string
		err := rows.Scan(
			&rec.SnapshotDate,
			&mode,
			&rec.HSCode,
			&rec.OriginCountry,
			&rec.DestCountry,
			&rec.Carrier,
			&rec.ShipperName,
			&rec.ConsigneeName,
		)
		if err != nil {
			return nil, err
		}
		rec.Mode = domain.TransportMode(mode)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *ShipmentRepository) FetchFilterOptions(ctx context.Context, q search.ParameterizedQuery) (*domain.FilterOptions, error) {
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modes := make(map[string]struct{})
	origins := make(map[string]struct{})
	dests := make(map[string]struct{})
	carriers := make(map[string]struct{})

	for rows.Next() {
		var mode, origin, dest, carrier string
		if err := rows.Scan(&mode, &origin, &dest, &carrier); err != nil {
			return nil, err
		}
		collect(modes, mode)
		collect(origins, origin)
		collect(dests, dest)
		collect(carriers, carrier)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.FilterOptions{
		Modes:    sorted(modes),
		Origins:  sorted(origins),
		Dests:    sorted(dests),
		Carriers: sorted(carriers),
	}, nil
}

func collect(set map[string]struct{}, value string) {
	if value != "" {
		set[value] = struct{}{}
	}
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
