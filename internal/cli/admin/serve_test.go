//go:build integration

package admin

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminagems/gemstore/internal/testutil"
)

func TestRunMigrations_AppliesThenNoChange(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	sourceURL := "file://../../../migrations"

	// Fresh database: migrations apply.
	require.NoError(t, runMigrations(pc.ConnectionString(), sourceURL))

	// Second run has nothing to apply and must still succeed.
	require.NoError(t, runMigrations(pc.ConnectionString(), sourceURL))

	pool, err := pgxpool.New(ctx, pc.ConnectionString())
	require.NoError(t, err)
	defer pool.Close()

	var version int64
	var dirty bool
	require.NoError(t, pool.QueryRow(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty))
	assert.Greater(t, version, int64(0))
	assert.False(t, dirty)
}
