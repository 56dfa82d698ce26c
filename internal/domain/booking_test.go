package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking_Creation(t *testing.T) {
	parkID := uuid.New()
	dates := consecutiveDates(Today(), 3)

	b, err := NewBooking(parkID, " John ", 2, dates[0], 3, USD(decimal.NewFromInt(100)), dates, GuestCategoryAdult)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, parkID, b.ParkID)
	assert.Equal(t, "John", b.GuestName)
	assert.Equal(t, BookingStatusPending, b.Status)
	assert.Nil(t, b.CancelledAt)
	assert.Equal(t, dates, b.ReservedDates())
	assert.True(t, b.TotalPrice().Equal(USD(decimal.NewFromInt(600))))
}

func TestNewBooking_Validation(t *testing.T) {
	d := Today()
	price := USD(decimal.NewFromInt(1))

	_, err := NewBooking(uuid.New(), "a", 0, d, 1, price, []Date{d}, GuestCategoryAdult)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBooking(uuid.New(), "a", 1, d, 0, price, nil, GuestCategoryAdult)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBooking(uuid.New(), "", 1, d, 1, price, []Date{d}, GuestCategoryAdult)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBooking(uuid.New(), "a", 1, d, 2, price, []Date{d}, GuestCategoryAdult)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBooking_ReservedDatesAreImmutable(t *testing.T) {
	dates := consecutiveDates(Today(), 2)
	b, err := NewBooking(uuid.New(), "a", 1, dates[0], 2, USD(decimal.NewFromInt(1)), dates, GuestCategoryAdult)
	require.NoError(t, err)

	dates[0] = dates[0].AddDays(100)
	got := b.ReservedDates()
	got[1] = got[1].AddDays(100)

	assert.Equal(t, consecutiveDates(Today(), 2), b.ReservedDates())
}

func TestBooking_StatusTransitions(t *testing.T) {
	d := Today()
	b, err := NewBooking(uuid.New(), "a", 1, d, 1, USD(decimal.NewFromInt(1)), []Date{d}, GuestCategoryChild)
	require.NoError(t, err)
	assert.True(t, b.IsActive())

	require.NoError(t, b.Confirm())
	assert.Equal(t, BookingStatusConfirmed, b.Status)
	assert.ErrorIs(t, b.Confirm(), ErrInvalidArgument)

	require.NoError(t, b.Cancel())
	assert.Equal(t, BookingStatusCancelled, b.Status)
	assert.NotNil(t, b.CancelledAt)
	assert.False(t, b.IsActive())
	assert.ErrorIs(t, b.Cancel(), ErrInvalidArgument)
}

func TestParseGuestCategory(t *testing.T) {
	c, err := ParseGuestCategory("child")
	require.NoError(t, err)
	assert.Equal(t, GuestCategoryChild, c)

	c, err = ParseGuestCategory("")
	require.NoError(t, err)
	assert.Equal(t, GuestCategoryAdult, c)

	_, err = ParseGuestCategory("senior")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBooking_StatusConstants(t *testing.T) {
	assert.Equal(t, "PENDING", string(BookingStatusPending))
	assert.Equal(t, "CONFIRMED", string(BookingStatusConfirmed))
	assert.Equal(t, "CANCELLED", string(BookingStatusCancelled))
}
