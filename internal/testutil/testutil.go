package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucasmv/studydeck/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied, configured the same way as the production database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err, "failed to open test database")
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
