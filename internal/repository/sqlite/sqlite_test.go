package sqlite

import "testing"

// newTestDB returns a DB backed by an in-memory SQLite database that lives
// only for the duration of the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
