package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreAnnotated(t *testing.T) {
	fsys, err := migrations()
	require.NoError(t, err)

	names, err := fs.Glob(fsys, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_catalog.sql", "0002_ledger.sql"}, names)

	for _, name := range names {
		body, err := fs.ReadFile(fsys, name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "-- +goose Up\n"), name)
		assert.Contains(t, string(body), "-- +goose Down\n", name)
	}
}
