package testutil

import (
	"fmt"
	"testing"

	"invoice-link-backend/internal/config"
	"invoice-link-backend/internal/logger"
	"invoice-link-backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewSQLiteStore opens a private in-memory SQLite database behind a real
// Store. Each call gets its own database.
func NewSQLiteStore(t testing.TB) *store.Store {
	t.Helper()

	cfg := config.DatabaseConfig{
		URL:  fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		Name: "test",
	}
	s, err := store.Open(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })
	return s
}
