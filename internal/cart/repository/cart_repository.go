package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"parkbooking/internal/domain"
	"parkbooking/internal/infrastructure/database"
)

type SQLCartRepository struct {
	db *sql.DB
}

func NewSQLCartRepository(db *sql.DB) *SQLCartRepository {
	return &SQLCartRepository{db: db}
}

// GetOrCreate loads the cart with the given id. When id is nil or unknown a new
// empty cart is stored and returned; an unknown id is kept as the new cart's id.
func (r *SQLCartRepository) GetOrCreate(ctx context.Context, id *uuid.UUID) (*domain.Cart, error) {
	if id != nil {
		cart, err := r.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
	}

	newID := uuid.Nil
	if id != nil {
		newID = *id
	}
	cart := domain.NewCart(newID)
	if err := r.Update(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Update upserts the cart row and replaces its items.
func (r *SQLCartRepository) Update(ctx context.Context, cart *domain.Cart) error {
	conn := database.Conn(ctx, r.db)

	history, err := json.Marshal(historyToDocuments(cart.History()))
	if err != nil {
		return fmt.Errorf("encoding cart history: %w", err)
	}

	var count int
	err = conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM carts WHERE id = ?`, cart.ID.String()).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking cart existence: %w", err)
	}

	if count > 0 {
		_, err = conn.ExecContext(ctx,
			`UPDATE carts SET last_updated_at = ?, history = ? WHERE id = ?`,
			cart.LastUpdatedAt.UTC(), string(history), cart.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("updating cart: %w", err)
		}
	} else {
		_, err = conn.ExecContext(ctx,
			`INSERT INTO carts (id, created_at, last_updated_at, history) VALUES (?, ?, ?, ?)`,
			cart.ID.String(), cart.CreatedAt.UTC(), cart.LastUpdatedAt.UTC(), string(history),
		)
		if err != nil {
			return fmt.Errorf("inserting cart: %w", err)
		}
	}

	if _, err := conn.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cart.ID.String()); err != nil {
		return fmt.Errorf("clearing cart items: %w", err)
	}
	for _, item := range cart.Items() {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, booking_id, park_name, quantity, unit_price_amount, unit_price_currency)
			VALUES (?, ?, ?, ?, ?, ?)`,
			cart.ID.String(), item.BookingID.String(), item.ParkName, item.Quantity,
			item.UnitPrice.Amount().StringFixed(2), item.UnitPrice.Currency(),
		)
		if err != nil {
			return fmt.Errorf("inserting cart item: %w", err)
		}
	}
	return nil
}

// Remove reports whether a cart was deleted.
func (r *SQLCartRepository) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	conn := database.Conn(ctx, r.db)

	if _, err := conn.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, id.String()); err != nil {
		return false, fmt.Errorf("deleting cart items: %w", err)
	}

	result, err := conn.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("deleting cart: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *SQLCartRepository) GetAll(ctx context.Context) ([]*domain.Cart, error) {
	return r.query(ctx, `SELECT id, created_at, last_updated_at, history FROM carts ORDER BY created_at, id`)
}

// GetByID returns nil when the cart does not exist. It never creates one.
func (r *SQLCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	carts, err := r.query(ctx, `SELECT id, created_at, last_updated_at, history FROM carts WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return nil, nil
	}
	return carts[0], nil
}

type cartRecord struct {
	id            uuid.UUID
	createdAt     time.Time
	lastUpdatedAt time.Time
	history       string
}

func (r *SQLCartRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Cart, error) {
	conn := database.Conn(ctx, r.db)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying carts: %w", err)
	}

	var records []cartRecord
	for rows.Next() {
		var rec cartRecord
		if err := rows.Scan(&rec.id, &rec.createdAt, &rec.lastUpdatedAt, &rec.history); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning cart row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating cart rows: %w", err)
	}
	rows.Close()

	carts := make([]*domain.Cart, 0, len(records))
	for _, rec := range records {
		items, err := r.items(ctx, conn, rec.id)
		if err != nil {
			return nil, err
		}

		var history [][]cartItemDocument
		if rec.history != "" {
			if err := json.Unmarshal([]byte(rec.history), &history); err != nil {
				return nil, fmt.Errorf("decoding cart history: %w", err)
			}
		}

		cart, err := cartDocument{
			ID:            rec.id,
			CreatedAt:     rec.createdAt.UTC(),
			LastUpdatedAt: rec.lastUpdatedAt.UTC(),
			Items:         items,
			History:       history,
		}.toDomain()
		if err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	return carts, nil
}

func (r *SQLCartRepository) items(ctx context.Context, conn database.Executor, cartID uuid.UUID) ([]cartItemDocument, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT booking_id, park_name, quantity, unit_price_amount, unit_price_currency
		FROM cart_items
		WHERE cart_id = ?`, cartID.String())
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	var docs []cartItemDocument
	for rows.Next() {
		var (
			doc    cartItemDocument
			amount decimal.Decimal
		)
		if err := rows.Scan(&doc.BookingID, &doc.ParkName, &doc.Quantity, &amount, &doc.Currency); err != nil {
			return nil, fmt.Errorf("scanning cart item row: %w", err)
		}
		doc.UnitPrice = amount
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart item rows: %w", err)
	}
	return docs, nil
}
