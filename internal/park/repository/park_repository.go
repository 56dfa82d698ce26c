package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"parkbooking/internal/config"
	"parkbooking/internal/domain"
	"parkbooking/internal/infrastructure/database"
)

const selectParkColumns = `
	SELECT id, name, description, location, guest_limit, available_guest_capacity,
	       price_amount, price_currency, created_at, last_modified_at
	FROM parks`

type SQLParkRepository struct {
	db     *sql.DB
	driver string
}

func NewSQLParkRepository(db *sql.DB, driver string) *SQLParkRepository {
	return &SQLParkRepository{db: db, driver: driver}
}

func (r *SQLParkRepository) GetAll(ctx context.Context) ([]*domain.Park, error) {
	conn := database.Conn(ctx, r.db)

	rows, err := conn.QueryContext(ctx, selectParkColumns+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying parks: %w", err)
	}

	var records []parkRecord
	for rows.Next() {
		rec, err := scanPark(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating park rows: %w", err)
	}
	rows.Close()

	availability, err := r.loadAvailability(ctx, conn, nil)
	if err != nil {
		return nil, err
	}

	parks := make([]*domain.Park, 0, len(records))
	for _, rec := range records {
		parks = append(parks, rec.toDomain(availability[rec.id]))
	}
	return parks, nil
}

// GetByID returns nil, nil when the park does not exist.
func (r *SQLParkRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Park, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate locks the park row until the surrounding transaction ends.
// SQLite has no row locks; its single writer connection serialises access instead.
func (r *SQLParkRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Park, error) {
	return r.getByID(ctx, id, true)
}

func (r *SQLParkRepository) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Park, error) {
	conn := database.Conn(ctx, r.db)

	query := selectParkColumns + ` WHERE id = ?`
	if forUpdate && r.driver == config.DriverMySQL {
		query += ` FOR UPDATE`
	}

	rec, err := scanPark(conn.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	availability, err := r.loadAvailability(ctx, conn, &id)
	if err != nil {
		return nil, err
	}
	return rec.toDomain(availability[id]), nil
}

func (r *SQLParkRepository) Add(ctx context.Context, park *domain.Park) error {
	conn := database.Conn(ctx, r.db)

	query := `
		INSERT INTO parks (id, name, description, location, guest_limit, available_guest_capacity,
		                   price_amount, price_currency, created_at, last_modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := conn.ExecContext(ctx, query,
		park.ID.String(), park.Name, park.Description, park.Location,
		park.GuestLimit, park.AvailableGuestCapacity,
		park.PricePerGuestPerDay.Amount().StringFixed(2), park.PricePerGuestPerDay.Currency(),
		park.CreatedAt.UTC(), park.LastModifiedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting park: %w", err)
	}

	return r.replaceAvailability(ctx, conn, park)
}

// Update writes the park's counters and its full date set. A park that is not
// stored yet is inserted.
func (r *SQLParkRepository) Update(ctx context.Context, park *domain.Park) error {
	conn := database.Conn(ctx, r.db)

	exists, err := r.exists(ctx, conn, park.ID)
	if err != nil {
		return err
	}
	if !exists {
		return r.Add(ctx, park)
	}

	query := `
		UPDATE parks
		SET name = ?, description = ?, location = ?, guest_limit = ?, available_guest_capacity = ?,
		    price_amount = ?, price_currency = ?, last_modified_at = ?
		WHERE id = ?`

	_, err = conn.ExecContext(ctx, query,
		park.Name, park.Description, park.Location,
		park.GuestLimit, park.AvailableGuestCapacity,
		park.PricePerGuestPerDay.Amount().StringFixed(2), park.PricePerGuestPerDay.Currency(),
		park.LastModifiedAt.UTC(), park.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating park: %w", err)
	}

	return r.replaceAvailability(ctx, conn, park)
}

// Remove reports whether a park was deleted.
func (r *SQLParkRepository) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	conn := database.Conn(ctx, r.db)

	if _, err := conn.ExecContext(ctx, `DELETE FROM park_availability WHERE park_id = ?`, id.String()); err != nil {
		return false, fmt.Errorf("deleting park availability: %w", err)
	}

	result, err := conn.ExecContext(ctx, `DELETE FROM parks WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("deleting park: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *SQLParkRepository) exists(ctx context.Context, conn database.Executor, id uuid.UUID) (bool, error) {
	var count int
	err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM parks WHERE id = ?`, id.String()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking park existence: %w", err)
	}
	return count > 0, nil
}

func (r *SQLParkRepository) replaceAvailability(ctx context.Context, conn database.Executor, park *domain.Park) error {
	if _, err := conn.ExecContext(ctx, `DELETE FROM park_availability WHERE park_id = ?`, park.ID.String()); err != nil {
		return fmt.Errorf("clearing park availability: %w", err)
	}

	for _, d := range park.AvailableDates() {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO park_availability (park_id, date) VALUES (?, ?)`,
			park.ID.String(), d.String(),
		)
		if err != nil {
			return fmt.Errorf("inserting park availability: %w", err)
		}
	}
	return nil
}

// loadAvailability returns open dates grouped by park. A nil parkID loads every park.
func (r *SQLParkRepository) loadAvailability(ctx context.Context, conn database.Executor, parkID *uuid.UUID) (map[uuid.UUID][]domain.Date, error) {
	query := `SELECT park_id, date FROM park_availability`
	var args []any
	if parkID != nil {
		query += ` WHERE park_id = ?`
		args = append(args, parkID.String())
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying park availability: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Date)
	for rows.Next() {
		var (
			id  uuid.UUID
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning park availability row: %w", err)
		}
		d, err := domain.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing availability date %q: %w", raw, err)
		}
		out[id] = append(out[id], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating park availability rows: %w", err)
	}
	return out, nil
}

type parkRecord struct {
	id                     uuid.UUID
	name                   string
	description            string
	location               string
	guestLimit             int
	availableGuestCapacity int
	priceAmount            decimal.Decimal
	priceCurrency          string
	createdAt              time.Time
	lastModifiedAt         time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPark(row rowScanner) (parkRecord, error) {
	var rec parkRecord
	err := row.Scan(
		&rec.id, &rec.name, &rec.description, &rec.location,
		&rec.guestLimit, &rec.availableGuestCapacity,
		&rec.priceAmount, &rec.priceCurrency,
		&rec.createdAt, &rec.lastModifiedAt,
	)
	if err == sql.ErrNoRows {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("scanning park row: %w", err)
	}
	return rec, nil
}

func (rec parkRecord) toDomain(dates []domain.Date) *domain.Park {
	return domain.RestorePark(
		rec.id,
		rec.name, rec.description, rec.location,
		rec.guestLimit, rec.availableGuestCapacity,
		domain.NewMoney(rec.priceAmount, rec.priceCurrency),
		dates,
		rec.createdAt.UTC(), rec.lastModifiedAt.UTC(),
	)
}
