package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"parkbooking/internal/config"
	"parkbooking/internal/infrastructure/database"
)

// SetupTestDB opens a migrated SQLite database in a per-test temp directory.
// The database is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.NewConnection(config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "parkbooking_test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		CleanupTestDB(t, db)
	})
	return db
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"cart_items", "carts", "booking_reserved_dates", "bookings", "park_availability", "parks"}
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
