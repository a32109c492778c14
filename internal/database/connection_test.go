//go:build integration

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminagems/gemstore/internal/testutil"
)

func TestNewPool_ConnectsWithLimits(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool, err := NewPool(ctx, Config{
		URL:      pc.ConnectionString(),
		MaxConns: 5,
		MinConns: 1,
	})
	require.NoError(t, err)
	defer pool.Close()

	assert.Equal(t, int32(5), pool.Config().MaxConns)
	assert.Equal(t, int32(1), pool.Config().MinConns)

	var one int
	require.NoError(t, pool.QueryRow(ctx, "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestNewPool_DefaultsWhenLimitsUnset(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool, err := NewPool(ctx, Config{URL: pc.ConnectionString()})
	require.NoError(t, err)
	defer pool.Close()

	// Zero values fall back to pgxpool defaults rather than a zero-conn pool.
	assert.Greater(t, pool.Config().MaxConns, int32(0))
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), Config{URL: "not-a-database-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database config")
}
