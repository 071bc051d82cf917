//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lanewise/lanewise/internal/domain"
	"github.com/lanewise/lanewise/internal/search"
	"github.com/lanewise/lanewise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertShipment(ctx context.Context, t *testing.T, pool *pgxpool.Pool, date time.Time, mode, hs, origin, dest, carrier, shipper, consignee string) {
	t.Helper()
	_, err := pool.Exec(ctx,
		`INSERT INTO shipments (snapshot_date, mode, hs_code, origin_country, dest_country, carrier, shipper_name, consignee_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		date, mode, hs, origin, dest, carrier, shipper, consignee,
	)
	require.NoError(t, err)
}

func TestShipmentRepository_FetchShipments(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewShipmentRepository(pool)
	now := time.Now().UTC()

	insertShipment(ctx, t, pool, now.AddDate(0, 0, -10), "ocean", "8471", "CN", "US", "Maersk", "Acme Corp", "Globex")
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -20), "air", "9001", "VN", "US", "Korean Air", "Acme Corp", "Initech")
	// Outside the default lookback window.
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -400), "ocean", "8471", "CN", "US", "Maersk", "Acme Corp", "Globex")

	filter, err := search.NormalizeFilter(search.RawFilter{})
	require.NoError(t, err)

	records, err := repo.FetchShipments(ctx, search.BuildShipmentQuery(filter, now))
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestShipmentRepository_FetchShipments_ModeAndTextFilter(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewShipmentRepository(pool)
	now := time.Now().UTC()

	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "ocean", "8471", "CN", "US", "Maersk", "Acme Corp", "Globex")
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "air", "8471", "CN", "US", "Korean Air", "Acme Corp", "Globex")
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "ocean", "8471", "CN", "US", "Maersk", "Initech", "Hooli")
	// Matches on the consignee side.
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "ocean", "8471", "CN", "US", "Maersk", "Hooli", "ACME CORP")

	filter, err := search.NormalizeFilter(search.RawFilter{Query: "acme", Mode: "ocean"})
	require.NoError(t, err)

	records, err := repo.FetchShipments(ctx, search.BuildShipmentQuery(filter, now))
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, domain.ModeOcean, rec.Mode)
	}
}

func TestShipmentRepository_FetchShipments_ValueListFilter(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewShipmentRepository(pool)
	now := time.Now().UTC()

	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "ocean", "8471", "CN", "US", "Maersk", "Acme Corp", "Globex")
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "ocean", "8471", "VN", "US", "MSC", "Acme Corp", "Globex")
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "ocean", "8471", "DE", "US", "Hapag", "Acme Corp", "Globex")

	filter, err := search.NormalizeFilter(search.RawFilter{Origins: []string{"cn", "vn"}})
	require.NoError(t, err)

	records, err := repo.FetchShipments(ctx, search.BuildShipmentQuery(filter, now))
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestShipmentRepository_FetchFilterOptions(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewShipmentRepository(pool)
	now := time.Now().UTC()

	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "ocean", "8471", "CN", "US", "Maersk", "Acme Corp", "Globex")
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -5), "air", "9001", "VN", "DE", "Korean Air", "Acme Corp", "Globex")
	insertShipment(ctx, t, pool, now.AddDate(0, 0, -400), "other", "1234", "BR", "JP", "Ancient Line", "Acme Corp", "Globex")

	opts, err := repo.FetchFilterOptions(ctx, search.BuildFilterOptionsQuery(now))
	require.NoError(t, err)

	assert.Equal(t, []string{"air", "ocean"}, opts.Modes)
	assert.Equal(t, []string{"CN", "VN"}, opts.Origins)
	assert.Equal(t, []string{"DE", "US"}, opts.Dests)
	assert.Equal(t, []string{"Korean Air", "Maersk"}, opts.Carriers)
}
