// Package dbtest opens the Postgres database used by repository tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// EnvDSN names the variable holding the test database DSN.
const EnvDSN = "STOCK_TEST_DSN"

// lockKey serializes test packages sharing one database.
const lockKey = 7242031

// Open connects to the database in STOCK_TEST_DSN, applies the migrations and
// empties the inventory tables. The test is skipped when the variable is unset.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conn, err := db.Connx(context.Background())
	require.NoError(t, err)
	_, err = conn.ExecContext(context.Background(), `SELECT pg_advisory_lock($1)`, lockKey)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
		conn.Close()
	})

	_, err = database.Migrate(context.Background(), db)
	require.NoError(t, err)

	_, err = db.ExecContext(context.Background(), `TRUNCATE inventories CASCADE`)
	require.NoError(t, err)
	return db
}
