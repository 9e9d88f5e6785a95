package pg

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfigDefaults(t *testing.T) {
	assert.Equal(t, DefaultPool(), PoolConfig{}.withDefaults())

	p := PoolConfig{MaxOpenConns: 3, MaxIdleConns: 8, ConnMaxLifetime: time.Minute}.withDefaults()
	assert.Equal(t, 3, p.MaxOpenConns)
	assert.Equal(t, 3, p.MaxIdleConns, "idle is capped by open")
	assert.Equal(t, time.Minute, p.ConnMaxLifetime)
	assert.Equal(t, DefaultPool().PingTimeout, p.PingTimeout)
}

func TestConfigureAppliesPool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied := Configure(db, PoolConfig{MaxOpenConns: 4, MaxIdleConns: 2})
	assert.Equal(t, 4, applied.MaxOpenConns)
	assert.Equal(t, 4, db.Stats().MaxOpenConnections)
}
