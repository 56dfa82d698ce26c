package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingEventType string

const (
	BookingEventConfirmed BookingEventType = "booking.confirmed"
	BookingEventCancelled BookingEventType = "booking.cancelled"
	BookingEventRemoved   BookingEventType = "booking.removed"
)

// BookingEvent is emitted after a booking change has been committed.
type BookingEvent struct {
	Type          BookingEventType `json:"type"`
	BookingID     uuid.UUID        `json:"bookingId"`
	ParkID        uuid.UUID        `json:"parkId"`
	GuestName     string           `json:"guestName"`
	Guests        int              `json:"guests"`
	ReservedDates []Date           `json:"reservedDates"`
	TotalPrice    string           `json:"totalPrice"`
	Currency      string           `json:"currency"`
	OccurredAt    time.Time        `json:"occurredAt"`
}

func NewBookingEvent(eventType BookingEventType, b *Booking) BookingEvent {
	total := b.TotalPrice()
	return BookingEvent{
		Type:          eventType,
		BookingID:     b.ID,
		ParkID:        b.ParkID,
		GuestName:     b.GuestName,
		Guests:        b.Guests,
		ReservedDates: b.ReservedDates(),
		TotalPrice:    total.Amount().StringFixed(2),
		Currency:      total.Currency(),
		OccurredAt:    time.Now().UTC(),
	}
}
