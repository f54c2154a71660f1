package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/duty-logbook/backend/migrations"
	"github.com/pkordes/duty-logbook/backend/testutil"
)

// TestMain applies all pending migrations to the test database once for the
// whole test binary, so individual tests never need to think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured: every test skips itself via testutil.NewPool.
		os.Exit(m.Run())
	}

	// goose needs database/sql, and TestMain has no *testing.T for testutil.NewSQLDB.
	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))

	if _, err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
