package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"parkbooking/internal/domain"
)

// cartItemDocument is the serialised form of a cart item, shared by the SQL
// history column and the Redis store.
type cartItemDocument struct {
	BookingID uuid.UUID       `json:"bookingId"`
	ParkName  string          `json:"parkName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  string          `json:"currency"`
}

type cartDocument struct {
	ID            uuid.UUID            `json:"id"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	Items         []cartItemDocument   `json:"items"`
	History       [][]cartItemDocument `json:"history"`
}

func itemsToDocuments(items []domain.CartItem) []cartItemDocument {
	docs := make([]cartItemDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, cartItemDocument{
			BookingID: item.BookingID,
			ParkName:  item.ParkName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount(),
			Currency:  item.UnitPrice.Currency(),
		})
	}
	return docs
}

func documentsToItems(docs []cartItemDocument) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, domain.CartItem{
			BookingID: doc.BookingID,
			ParkName:  doc.ParkName,
			Quantity:  doc.Quantity,
			UnitPrice: domain.NewMoney(doc.UnitPrice, doc.Currency),
		})
	}
	return items
}

func historyToDocuments(history []domain.CartSnapshot) [][]cartItemDocument {
	out := make([][]cartItemDocument, 0, len(history))
	for _, snap := range history {
		out = append(out, itemsToDocuments(snap.SortedItems()))
	}
	return out
}

func documentsToHistory(docs [][]cartItemDocument) []domain.CartSnapshot {
	out := make([]domain.CartSnapshot, 0, len(docs))
	for _, snapDocs := range docs {
		snap := make(domain.CartSnapshot, len(snapDocs))
		for _, item := range documentsToItems(snapDocs) {
			snap[item.BookingID] = item
		}
		out = append(out, snap)
	}
	return out
}

func newCartDocument(cart *domain.Cart) cartDocument {
	return cartDocument{
		ID:            cart.ID,
		CreatedAt:     cart.CreatedAt.UTC(),
		LastUpdatedAt: cart.LastUpdatedAt.UTC(),
		Items:         itemsToDocuments(cart.Items()),
		History:       historyToDocuments(cart.History()),
	}
}

func (d cartDocument) toDomain() (*domain.Cart, error) {
	cart, err := domain.RestoreCart(d.ID, d.CreatedAt, d.LastUpdatedAt, documentsToItems(d.Items), documentsToHistory(d.History))
	if err != nil {
		return nil, fmt.Errorf("restoring cart: %w", err)
	}
	return cart, nil
}
