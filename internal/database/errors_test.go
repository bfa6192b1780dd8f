package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert inventory: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(dup))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/0001_catalog.sql", "migrations/0002_ledger.sql"}, names)
}

func TestInTx(t *testing.T) {
	assert.False(t, InTx(context.Background()))
}
