package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type GuestCategory string

const (
	GuestCategoryAdult GuestCategory = "ADULT"
	GuestCategoryChild GuestCategory = "CHILD"
)

func ParseGuestCategory(s string) (GuestCategory, error) {
	switch GuestCategory(strings.ToUpper(strings.TrimSpace(s))) {
	case GuestCategoryAdult, "":
		return GuestCategoryAdult, nil
	case GuestCategoryChild:
		return GuestCategoryChild, nil
	default:
		return "", fmt.Errorf("%w: unknown guest category %q", ErrInvalidArgument, s)
	}
}

// Booking is a claim on a park's guests and dates. ReservedDates never change
// after creation; only Status and CancelledAt do.
type Booking struct {
	ID            uuid.UUID
	ParkID        uuid.UUID
	GuestName     string
	Guests        int
	StartDate     Date
	DayCount      int
	PricePerDay   Money
	Status        BookingStatus
	CreatedAt     time.Time
	CancelledAt   *time.Time
	GuestCategory GuestCategory

	reservedDates []Date
}

func NewBooking(
	parkID uuid.UUID,
	guestName string,
	guests int,
	startDate Date,
	dayCount int,
	pricePerDay Money,
	reservedDates []Date,
	category GuestCategory,
) (*Booking, error) {
	if dayCount <= 0 {
		return nil, fmt.Errorf("%w: bookings must be for at least one day", ErrInvalidArgument)
	}
	if guests <= 0 {
		return nil, fmt.Errorf("%w: guest count must be positive", ErrInvalidArgument)
	}
	if strings.TrimSpace(guestName) == "" {
		return nil, fmt.Errorf("%w: guest name cannot be empty", ErrInvalidArgument)
	}
	if len(reservedDates) != dayCount {
		return nil, fmt.Errorf("%w: %d reserved dates for a %d day booking", ErrInvalidArgument, len(reservedDates), dayCount)
	}
	if category == "" {
		category = GuestCategoryAdult
	}

	return &Booking{
		ID:            uuid.New(),
		ParkID:        parkID,
		GuestName:     strings.TrimSpace(guestName),
		Guests:        guests,
		StartDate:     startDate,
		DayCount:      dayCount,
		PricePerDay:   pricePerDay,
		Status:        BookingStatusPending,
		CreatedAt:     time.Now().UTC(),
		GuestCategory: category,
		reservedDates: append([]Date(nil), reservedDates...),
	}, nil
}

// RestoreBooking rebuilds a booking from persisted state.
func RestoreBooking(
	id, parkID uuid.UUID,
	guestName string,
	guests int,
	startDate Date,
	dayCount int,
	pricePerDay Money,
	reservedDates []Date,
	status BookingStatus,
	createdAt time.Time,
	cancelledAt *time.Time,
	category GuestCategory,
) *Booking {
	return &Booking{
		ID:            id,
		ParkID:        parkID,
		GuestName:     guestName,
		Guests:        guests,
		StartDate:     startDate,
		DayCount:      dayCount,
		PricePerDay:   pricePerDay,
		Status:        status,
		CreatedAt:     createdAt,
		CancelledAt:   cancelledAt,
		GuestCategory: category,
		reservedDates: append([]Date(nil), reservedDates...),
	}
}

// ReservedDates returns a copy of the dates held by this booking.
func (b *Booking) ReservedDates() []Date {
	return append([]Date(nil), b.reservedDates...)
}

func (b *Booking) TotalPrice() Money {
	return b.PricePerDay.MulInt(b.Guests * b.DayCount)
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

func (b *Booking) Confirm() error {
	if b.Status != BookingStatusPending {
		return fmt.Errorf("%w: cannot confirm a %s booking", ErrInvalidArgument, strings.ToLower(string(b.Status)))
	}
	b.Status = BookingStatusConfirmed
	return nil
}

func (b *Booking) Cancel() error {
	if b.Status == BookingStatusCancelled {
		return fmt.Errorf("%w: booking is already cancelled", ErrInvalidArgument)
	}
	now := time.Now().UTC()
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	return nil
}
