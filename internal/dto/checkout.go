package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	CartID              uuid.UUID `json:"cartId"`
	CardholderName      string    `json:"cardholderName"`
	CardNumber          string    `json:"cardNumber"`
	ExpirationMonthYear string    `json:"expirationMonthYear"`
	CVC                 string    `json:"cvc"`
	Street              string    `json:"street"`
	City                string    `json:"city"`
	State               string    `json:"state"`
	PostalCode          string    `json:"postalCode"`
}

type CheckoutResponse struct {
	TraceID    string      `json:"traceId"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Amount     string      `json:"amount,omitempty"`
	Currency   string      `json:"currency,omitempty"`
	BookingIDs []uuid.UUID `json:"bookingIds,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}
