package database

import (
	"context"
	"database/sql"
	"fmt"

	"parkbooking/internal/config"
)

// Dates are stored as YYYY-MM-DD text so they round-trip without zone drift.
// Money amounts are stored as decimal text next to their currency code.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS parks (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL,
		guest_limit INTEGER NOT NULL,
		available_guest_capacity INTEGER NOT NULL,
		price_amount TEXT NOT NULL,
		price_currency TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		last_modified_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS park_availability (
		park_id TEXT NOT NULL REFERENCES parks(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		PRIMARY KEY (park_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT NOT NULL PRIMARY KEY,
		park_id TEXT NOT NULL,
		guest_name TEXT NOT NULL,
		guests INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		day_count INTEGER NOT NULL,
		price_amount TEXT NOT NULL,
		price_currency TEXT NOT NULL,
		status TEXT NOT NULL,
		guest_category TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		cancelled_at TIMESTAMP NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_park ON bookings(park_id)`,
	`CREATE TABLE IF NOT EXISTS booking_reserved_dates (
		booking_id TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		PRIMARY KEY (booking_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id TEXT NOT NULL PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		last_updated_at TIMESTAMP NOT NULL,
		history TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		booking_id TEXT NOT NULL,
		park_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price_amount TEXT NOT NULL,
		unit_price_currency TEXT NOT NULL,
		PRIMARY KEY (cart_id, booking_id)
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS parks (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		location VARCHAR(255) NOT NULL,
		guest_limit INT NOT NULL,
		available_guest_capacity INT NOT NULL,
		price_amount DECIMAL(12,2) NOT NULL,
		price_currency CHAR(3) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		last_modified_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS park_availability (
		park_id CHAR(36) NOT NULL,
		date CHAR(10) NOT NULL,
		PRIMARY KEY (park_id, date),
		FOREIGN KEY (park_id) REFERENCES parks(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id CHAR(36) NOT NULL PRIMARY KEY,
		park_id CHAR(36) NOT NULL,
		guest_name VARCHAR(255) NOT NULL,
		guests INT NOT NULL,
		start_date CHAR(10) NOT NULL,
		day_count INT NOT NULL,
		price_amount DECIMAL(12,2) NOT NULL,
		price_currency CHAR(3) NOT NULL,
		status VARCHAR(20) NOT NULL,
		guest_category VARCHAR(20) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		cancelled_at DATETIME(6) NULL,
		INDEX idx_bookings_park (park_id)
	)`,
	`CREATE TABLE IF NOT EXISTS booking_reserved_dates (
		booking_id CHAR(36) NOT NULL,
		date CHAR(10) NOT NULL,
		PRIMARY KEY (booking_id, date),
		FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id CHAR(36) NOT NULL PRIMARY KEY,
		created_at DATETIME(6) NOT NULL,
		last_updated_at DATETIME(6) NOT NULL,
		history LONGTEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		cart_id CHAR(36) NOT NULL,
		booking_id CHAR(36) NOT NULL,
		park_name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		unit_price_amount DECIMAL(12,2) NOT NULL,
		unit_price_currency CHAR(3) NOT NULL,
		PRIMARY KEY (cart_id, booking_id),
		FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE
	)`,
}

// Migrate creates the tables used by the stores if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var statements []string
	switch driver {
	case config.DriverMySQL:
		statements = mysqlSchema
	case config.DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
