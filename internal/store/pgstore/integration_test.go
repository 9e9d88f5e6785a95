//go:build integration

package pgstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"promoadmin/internal/logger"
	"promoadmin/internal/pg"
	"promoadmin/internal/promotion"
	"promoadmin/internal/store"
)

// go test -tags integration ./internal/store/pgstore/ (нужен Docker)
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("promo"),
		postgres.WithUsername("promo"),
		postgres.WithPassword("promo"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := Open(ctx, dsn, pg.PoolConfig{}, store.Options{}, true, logger.Discard())
	require.NoError(t, err)
	defer s.Close()

	// повторная миграция не падает
	s2, err := Open(ctx, dsn, pg.PoolConfig{}, store.Options{}, true, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, s2.Close())

	oc := promotion.NewOfferCustomer(&promotion.Offer{ID: 1}, &promotion.Customer{ID: 10})
	require.NoError(t, s.Save(ctx, oc))
	id, ok := oc.ID()
	require.True(t, ok)
	assert.Positive(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.OfferID())
	assert.Equal(t, int64(10), got.CustomerID())

	// без уникального индекса дубликаты допустимы
	require.NoError(t, s.Save(ctx, promotion.NewOfferCustomer(&promotion.Offer{ID: 1}, &promotion.Customer{ID: 10})))
	list, total, err := s.List(ctx, store.Filter{OfferID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	n, err := s.DeleteByOffer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStoreUniquePairs(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := Open(ctx, dsn, pg.PoolConfig{}, store.Options{UniquePairs: true}, true, logger.Discard())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, promotion.NewOfferCustomer(&promotion.Offer{ID: 2}, &promotion.Customer{ID: 20})))
	err = s.Save(ctx, promotion.NewOfferCustomer(&promotion.Offer{ID: 2}, &promotion.Customer{ID: 20}))
	assert.ErrorIs(t, err, store.ErrDuplicateLink)
}
