package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"parkbooking/internal/domain"
	"parkbooking/internal/infrastructure/database"
)

const selectBookingColumns = `
	SELECT id, park_id, guest_name, guests, start_date, day_count, price_amount, price_currency,
	       status, guest_category, created_at, cancelled_at
	FROM bookings`

type SQLBookingRepository struct {
	db *sql.DB
}

func NewSQLBookingRepository(db *sql.DB) *SQLBookingRepository {
	return &SQLBookingRepository{db: db}
}

func (r *SQLBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	return r.query(ctx, selectBookingColumns+` ORDER BY created_at, id`)
}

func (r *SQLBookingRepository) GetByPark(ctx context.Context, parkID uuid.UUID) ([]*domain.Booking, error) {
	return r.query(ctx, selectBookingColumns+` WHERE park_id = ? ORDER BY created_at, id`, parkID.String())
}

// GetByID returns nil, nil when the booking does not exist.
func (r *SQLBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	bookings, err := r.query(ctx, selectBookingColumns+` WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return bookings[0], nil
}

func (r *SQLBookingRepository) Add(ctx context.Context, booking *domain.Booking) error {
	conn := database.Conn(ctx, r.db)

	query := `
		INSERT INTO bookings (id, park_id, guest_name, guests, start_date, day_count, price_amount,
		                      price_currency, status, guest_category, created_at, cancelled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := conn.ExecContext(ctx, query,
		booking.ID.String(), booking.ParkID.String(), booking.GuestName, booking.Guests,
		booking.StartDate.String(), booking.DayCount,
		booking.PricePerDay.Amount().StringFixed(2), booking.PricePerDay.Currency(),
		string(booking.Status), string(booking.GuestCategory),
		booking.CreatedAt.UTC(), nullTime(booking.CancelledAt),
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	for _, d := range booking.ReservedDates() {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO booking_reserved_dates (booking_id, date) VALUES (?, ?)`,
			booking.ID.String(), d.String(),
		)
		if err != nil {
			return fmt.Errorf("inserting booking reserved date: %w", err)
		}
	}
	return nil
}

// Update persists the mutable part of a booking. Reserved dates are fixed at creation.
func (r *SQLBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	conn := database.Conn(ctx, r.db)

	query := `UPDATE bookings SET guest_name = ?, status = ?, cancelled_at = ? WHERE id = ?`

	result, err := conn.ExecContext(ctx, query,
		booking.GuestName, string(booking.Status), nullTime(booking.CancelledAt), booking.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("updating booking %s: %w", booking.ID, sql.ErrNoRows)
	}
	return nil
}

// Remove reports whether a booking was deleted.
func (r *SQLBookingRepository) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	conn := database.Conn(ctx, r.db)

	if _, err := conn.ExecContext(ctx, `DELETE FROM booking_reserved_dates WHERE booking_id = ?`, id.String()); err != nil {
		return false, fmt.Errorf("deleting booking reserved dates: %w", err)
	}

	result, err := conn.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("deleting booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *SQLBookingRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	conn := database.Conn(ctx, r.db)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}

	var records []bookingRecord
	for rows.Next() {
		var rec bookingRecord
		err := rows.Scan(
			&rec.id, &rec.parkID, &rec.guestName, &rec.guests, &rec.startDate, &rec.dayCount,
			&rec.priceAmount, &rec.priceCurrency, &rec.status, &rec.guestCategory,
			&rec.createdAt, &rec.cancelledAt,
		)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning booking row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating booking rows: %w", err)
	}
	rows.Close()

	bookings := make([]*domain.Booking, 0, len(records))
	for _, rec := range records {
		dates, err := r.reservedDates(ctx, conn, rec.id)
		if err != nil {
			return nil, err
		}
		booking, err := rec.toDomain(dates)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (r *SQLBookingRepository) reservedDates(ctx context.Context, conn database.Executor, bookingID uuid.UUID) ([]domain.Date, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT date FROM booking_reserved_dates WHERE booking_id = ? ORDER BY date`, bookingID.String())
	if err != nil {
		return nil, fmt.Errorf("querying booking reserved dates: %w", err)
	}
	defer rows.Close()

	var dates []domain.Date
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning booking reserved date: %w", err)
		}
		d, err := domain.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing reserved date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating booking reserved dates: %w", err)
	}
	return dates, nil
}

type bookingRecord struct {
	id            uuid.UUID
	parkID        uuid.UUID
	guestName     string
	guests        int
	startDate     string
	dayCount      int
	priceAmount   decimal.Decimal
	priceCurrency string
	status        string
	guestCategory string
	createdAt     time.Time
	cancelledAt   sql.NullTime
}

func (rec bookingRecord) toDomain(dates []domain.Date) (*domain.Booking, error) {
	start, err := domain.ParseDate(rec.startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing booking start date %q: %w", rec.startDate, err)
	}

	var cancelledAt *time.Time
	if rec.cancelledAt.Valid {
		t := rec.cancelledAt.Time.UTC()
		cancelledAt = &t
	}

	return domain.RestoreBooking(
		rec.id, rec.parkID,
		rec.guestName, rec.guests,
		start, rec.dayCount,
		domain.NewMoney(rec.priceAmount, rec.priceCurrency),
		dates,
		domain.BookingStatus(rec.status),
		rec.createdAt.UTC(),
		cancelledAt,
		domain.GuestCategory(rec.guestCategory),
	), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
