package dto

import (
	"time"

	"github.com/google/uuid"

	"parkbooking/internal/domain"
)

// CreateBookingRequest books a single guest on Date when Date is set, otherwise
// Guests for the DayCount earliest open days.
type CreateBookingRequest struct {
	GuestName     string `json:"guestName"`
	Guests        int    `json:"guests"`
	DayCount      int    `json:"dayCount"`
	Date          string `json:"date"`
	GuestCategory string `json:"guestCategory"`
}

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	ParkID        uuid.UUID  `json:"parkId"`
	GuestName     string     `json:"guestName"`
	Guests        int        `json:"guests"`
	StartDate     string     `json:"startDate"`
	DayCount      int        `json:"dayCount"`
	PricePerDay   string     `json:"pricePerDay"`
	TotalPrice    string     `json:"totalPrice"`
	Currency      string     `json:"currency"`
	ReservedDates []string   `json:"reservedDates"`
	Status        string     `json:"status"`
	GuestCategory string     `json:"guestCategory"`
	CreatedAt     time.Time  `json:"createdAt"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
}

func NewBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		ParkID:        b.ParkID,
		GuestName:     b.GuestName,
		Guests:        b.Guests,
		StartDate:     b.StartDate.String(),
		DayCount:      b.DayCount,
		PricePerDay:   b.PricePerDay.Amount().StringFixed(2),
		TotalPrice:    b.TotalPrice().Amount().StringFixed(2),
		Currency:      b.PricePerDay.Currency(),
		ReservedDates: dateStrings(b.ReservedDates()),
		Status:        string(b.Status),
		GuestCategory: string(b.GuestCategory),
		CreatedAt:     b.CreatedAt,
		CancelledAt:   b.CancelledAt,
	}
}

func NewBookingResponses(bookings []*domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}
