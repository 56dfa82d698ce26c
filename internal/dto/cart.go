package dto

import (
	"time"

	"github.com/google/uuid"

	"parkbooking/internal/domain"
)

type CreateCartRequest struct {
	ID *uuid.UUID `json:"id"`
}

type AddCartItemRequest struct {
	BookingID uuid.UUID `json:"bookingId"`
	Quantity  int       `json:"quantity"`
}

type CartItemResponse struct {
	BookingID uuid.UUID `json:"bookingId"`
	ParkName  string    `json:"parkName"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
	Subtotal  string    `json:"subtotal"`
	Currency  string    `json:"currency"`
}

type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	Items         []CartItemResponse `json:"items"`
	CanUndo       bool               `json:"canUndo"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

type CartTotalsResponse struct {
	CartID          uuid.UUID          `json:"cartId"`
	RegularTotal    string             `json:"regularTotal"`
	DiscountedTotal string             `json:"discountedTotal"`
	Tax             string             `json:"tax"`
	TotalWithTax    string             `json:"totalWithTax"`
	Currency        string             `json:"currency"`
	Items           []CartItemResponse `json:"items"`
}

func NewCartResponse(c *domain.Cart) CartResponse {
	return CartResponse{
		ID:            c.ID,
		Items:         NewCartItemResponses(c.Items()),
		CanUndo:       len(c.History()) > 0,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

func NewCartItemResponses(items []domain.CartItem) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, CartItemResponse{
			BookingID: item.BookingID,
			ParkName:  item.ParkName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount().StringFixed(2),
			Subtotal:  item.Subtotal().Amount().StringFixed(2),
			Currency:  item.UnitPrice.Currency(),
		})
	}
	return out
}
