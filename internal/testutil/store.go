package testutil

import (
	"testing"

	"tidy-go/internal/database"
	"tidy-go/internal/organizer"
)

// NewTestStore creates an in-memory tracking store with the schema
// applied and a fixed clock. The store is closed when the test completes.
func NewTestStore(t *testing.T) organizer.Store {
	t.Helper()

	store, err := database.NewSQLiteStore(":memory:", FixedClock())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
