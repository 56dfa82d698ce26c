package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingrepo "parkbooking/internal/booking/repository"
	"parkbooking/internal/commons"
	"parkbooking/internal/config"
	"parkbooking/internal/domain"
	"parkbooking/internal/infrastructure/database"
	parkrepo "parkbooking/internal/park/repository"
	"parkbooking/internal/testutil"
)

func consecutiveDates(start domain.Date, n int) []domain.Date {
	dates := make([]domain.Date, n)
	for i := range dates {
		dates[i] = start.AddDays(i)
	}
	return dates
}

func newTestPark(t *testing.T, guestLimit int, price string, dates []domain.Date) *domain.Park {
	t.Helper()
	park, err := domain.NewPark(uuid.New(), "Wild Ridge Moto Ranch", "Steep climbs and berms", "Moab, UT",
		guestLimit, domain.USD(decimal.RequireFromString(price)), dates)
	require.NoError(t, err)
	return park
}

type fixture struct {
	svc       *BookingService
	parks     *memoryParkRepository
	bookings  *memoryBookingRepository
	publisher *mockPublisher
}

func newFixture(parks ...*domain.Park) *fixture {
	f := &fixture{
		parks:     newMemoryParkRepository(parks...),
		bookings:  newMemoryBookingRepository(),
		publisher: &mockPublisher{},
	}
	f.svc = NewBookingService(&mockTransactionManager{}, f.parks, f.bookings, f.publisher, commons.NewKeyedMutex(), zap.NewNop())
	return f
}

func TestBookingService_EndToEndSingleDayCreateAndCancel(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 14)
	park := newTestPark(t, 10, "100", dates)
	f := newFixture(park)
	ctx := context.Background()

	result, err := f.svc.CreateSingleDayBooking(ctx, park.ID, "Ada", domain.GuestCategoryAdult, dates[0])
	require.NoError(t, err)
	require.True(t, result.Created())

	booking := result.Booking
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, "USD 100.00", booking.TotalPrice().String())

	stored := f.parks.get(park.ID)
	assert.Equal(t, 9, stored.AvailableGuestCapacity)
	assert.False(t, stored.IsDateAvailable(dates[0]))

	ok, err := f.svc.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stored = f.parks.get(park.ID)
	assert.Equal(t, 10, stored.AvailableGuestCapacity)
	assert.True(t, stored.IsDateAvailable(dates[0]))

	cancelled, err := f.svc.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	events := f.publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.BookingEventConfirmed, events[0].Type)
	assert.Equal(t, domain.BookingEventCancelled, events[1].Type)
}

func TestBookingService_CreateMultiDayBooking_TakesEarliestDates(t *testing.T) {
	start := domain.NewDate(2030, time.July, 1)
	dates := consecutiveDates(start, 5)
	park := newTestPark(t, 10, "120", []domain.Date{dates[4], dates[2], dates[0], dates[3], dates[1]})
	f := newFixture(park)

	result, err := f.svc.CreateMultiDayBooking(context.Background(), park.ID, "Ada", 3, 2)
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, result.Outcome)

	booking := result.Booking
	assert.Equal(t, []domain.Date{dates[0], dates[1]}, booking.ReservedDates())
	assert.Equal(t, dates[0], booking.StartDate)
	assert.Equal(t, domain.GuestCategoryAdult, booking.GuestCategory)
	assert.Equal(t, "USD 720.00", booking.TotalPrice().String())

	stored := f.parks.get(park.ID)
	assert.Equal(t, 7, stored.AvailableGuestCapacity)
	assert.Equal(t, dates[2:], stored.AvailableDates())
}

func TestBookingService_CreateMultiDayBooking_Unavailable(t *testing.T) {
	dates := consecutiveDates(domain.NewDate(2030, time.July, 1), 2)

	tests := []struct {
		name     string
		guests   int
		dayCount int
	}{
		{name: "not enough dates", guests: 1, dayCount: 3},
		{name: "not enough capacity", guests: 5, dayCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			park := newTestPark(t, 4, "50", dates)
			f := newFixture(park)

			result, err := f.svc.CreateMultiDayBooking(context.Background(), park.ID, "Ada", tt.guests, tt.dayCount)
			require.NoError(t, err)
			assert.Equal(t, OutcomeUnavailable, result.Outcome)
			assert.Nil(t, result.Booking)

			stored := f.parks.get(park.ID)
			assert.Equal(t, 4, stored.AvailableGuestCapacity)
			assert.Equal(t, dates, stored.AvailableDates())
			assert.Empty(t, f.publisher.Events())
		})
	}
}

func TestBookingService_CreateMultiDayBooking_ParkNotFound(t *testing.T) {
	f := newFixture()

	result, err := f.svc.CreateMultiDayBooking(context.Background(), uuid.New(), "Ada", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeParkNotFound, result.Outcome)
}

func TestBookingService_CreateMultiDayBooking_InvalidArguments(t *testing.T) {
	park := newTestPark(t, 4, "50", consecutiveDates(domain.Today(), 3))
	f := newFixture(park)
	ctx := context.Background()

	_, err := f.svc.CreateMultiDayBooking(ctx, park.ID, "Ada", 0, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.svc.CreateMultiDayBooking(ctx, park.ID, "Ada", 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.svc.CreateMultiDayBooking(ctx, park.ID, "   ", 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestBookingService_CreateSingleDayBooking_ChildPrice(t *testing.T) {
	tests := []struct {
		price    string
		expected string
	}{
		{price: "100", expected: "USD 60.00"},
		{price: "33.33", expected: "USD 20.00"},
		{price: "12.35", expected: "USD 7.41"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			dates := consecutiveDates(domain.Today(), 1)
			park := newTestPark(t, 2, tt.price, dates)
			f := newFixture(park)

			result, err := f.svc.CreateSingleDayBooking(context.Background(), park.ID, "Kid", domain.GuestCategoryChild, dates[0])
			require.NoError(t, err)
			require.True(t, result.Created())

			assert.Equal(t, tt.expected, result.Booking.PricePerDay.String())
			assert.Equal(t, domain.GuestCategoryChild, result.Booking.GuestCategory)
		})
	}
}

func TestBookingService_CreateSingleDayBooking_BlankNameBecomesGuest(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 1)
	park := newTestPark(t, 2, "10", dates)
	f := newFixture(park)

	result, err := f.svc.CreateSingleDayBooking(context.Background(), park.ID, "  ", domain.GuestCategoryAdult, dates[0])
	require.NoError(t, err)
	require.True(t, result.Created())
	assert.Equal(t, "Guest", result.Booking.GuestName)
}

func TestBookingService_CreateSingleDayBooking_DateTaken(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 2)
	park := newTestPark(t, 5, "10", dates)
	f := newFixture(park)
	ctx := context.Background()

	first, err := f.svc.CreateSingleDayBooking(ctx, park.ID, "Ada", domain.GuestCategoryAdult, dates[0])
	require.NoError(t, err)
	require.True(t, first.Created())

	second, err := f.svc.CreateSingleDayBooking(ctx, park.ID, "Bob", domain.GuestCategoryAdult, dates[0])
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnavailable, second.Outcome)

	stored := f.parks.get(park.ID)
	assert.Equal(t, 4, stored.AvailableGuestCapacity)
}

func TestBookingService_CancelBooking_Misses(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 2)
	park := newTestPark(t, 5, "10", dates)
	f := newFixture(park)
	ctx := context.Background()

	ok, err := f.svc.CancelBooking(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	result, err := f.svc.CreateSingleDayBooking(ctx, park.ID, "Ada", domain.GuestCategoryAdult, dates[1])
	require.NoError(t, err)

	ok, err = f.svc.CancelBooking(ctx, result.Booking.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.svc.CancelBooking(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, f.parks.get(park.ID).AvailableGuestCapacity)
}

func TestBookingService_RemoveBooking_ReleasesActiveBooking(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 3)
	park := newTestPark(t, 5, "10", dates)
	f := newFixture(park)
	ctx := context.Background()

	result, err := f.svc.CreateMultiDayBooking(ctx, park.ID, "Ada", 2, 3)
	require.NoError(t, err)
	require.True(t, result.Created())
	assert.Empty(t, f.parks.get(park.ID).AvailableDates())

	ok, err := f.svc.RemoveBooking(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stored := f.parks.get(park.ID)
	assert.Equal(t, 5, stored.AvailableGuestCapacity)
	assert.Equal(t, dates, stored.AvailableDates())

	got, err := f.svc.GetBooking(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = f.svc.RemoveBooking(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingService_RemoveBooking_CancelledDoesNotReleaseTwice(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 2)
	park := newTestPark(t, 3, "10", dates)
	f := newFixture(park)
	ctx := context.Background()

	cancelledOne, err := f.svc.CreateSingleDayBooking(ctx, park.ID, "Ada", domain.GuestCategoryAdult, dates[0])
	require.NoError(t, err)
	_, err = f.svc.CancelBooking(ctx, cancelledOne.Booking.ID)
	require.NoError(t, err)

	// Someone else books the released date before the cancelled record is purged.
	rebooked, err := f.svc.CreateSingleDayBooking(ctx, park.ID, "Bob", domain.GuestCategoryAdult, dates[0])
	require.NoError(t, err)
	require.True(t, rebooked.Created())

	ok, err := f.svc.RemoveBooking(ctx, cancelledOne.Booking.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stored := f.parks.get(park.ID)
	assert.Equal(t, 2, stored.AvailableGuestCapacity)
	assert.False(t, stored.IsDateAvailable(dates[0]))
}

func TestBookingService_PublishFailureIsNotReturned(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 1)
	park := newTestPark(t, 1, "10", dates)
	f := newFixture(park)
	f.publisher.PublishErr = errors.New("broker down")

	result, err := f.svc.CreateSingleDayBooking(context.Background(), park.ID, "Ada", domain.GuestCategoryAdult, dates[0])
	require.NoError(t, err)
	assert.True(t, result.Created())
}

func TestBookingService_TransactionErrorIsReturned(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 1)
	park := newTestPark(t, 1, "10", dates)
	f := newFixture(park)
	boom := errors.New("begin failed")
	f.svc.txMgr = &mockTransactionManager{
		WithinTransactionFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return boom
		},
	}

	_, err := f.svc.CreateSingleDayBooking(context.Background(), park.ID, "Ada", domain.GuestCategoryAdult, dates[0])
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.publisher.Events())
}

func TestBookingService_ConcurrentBookingsNeverOverbook(t *testing.T) {
	dates := consecutiveDates(domain.Today(), 14)
	park := newTestPark(t, 1, "100", dates)
	f := newFixture(park)

	const callers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.svc.CreateMultiDayBooking(context.Background(), park.ID, "Racer", 1, 1)
			assert.NoError(t, err)
			if result.Created() {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	stored := f.parks.get(park.ID)
	assert.Equal(t, 0, stored.AvailableGuestCapacity)
	assert.Len(t, stored.AvailableDates(), 13)
}

// Integration Tests

type failingBookingRepository struct {
	*bookingrepo.SQLBookingRepository
	err error
}

func (r *failingBookingRepository) Add(context.Context, *domain.Booking) error {
	return r.err
}

func TestBookingService_FailedBookingWriteRollsBackPark(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	parks := parkrepo.NewSQLParkRepository(db, config.DriverSQLite)
	dates := consecutiveDates(domain.Today(), 3)
	park := newTestPark(t, 4, "100", dates)
	require.NoError(t, parks.Add(ctx, park))

	boom := errors.New("disk full")
	bookings := &failingBookingRepository{SQLBookingRepository: bookingrepo.NewSQLBookingRepository(db), err: boom}
	txMgr := database.NewTxManager(db, zap.NewNop(), time.Second, 1)
	svc := NewBookingService(txMgr, parks, bookings, &mockPublisher{}, commons.NewKeyedMutex(), zap.NewNop())

	_, err := svc.CreateMultiDayBooking(ctx, park.ID, "Ada", 2, 2)
	assert.ErrorIs(t, err, boom)

	stored, err := parks.GetByID(ctx, park.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.AvailableGuestCapacity)
	assert.Equal(t, dates, stored.AvailableDates())
}

func TestBookingService_SQLiteRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	parks := parkrepo.NewSQLParkRepository(db, config.DriverSQLite)
	bookings := bookingrepo.NewSQLBookingRepository(db)
	dates := consecutiveDates(domain.Today(), 14)
	park := newTestPark(t, 10, "100", dates)
	require.NoError(t, parks.Add(ctx, park))

	txMgr := database.NewTxManager(db, zap.NewNop(), time.Second, 3)
	svc := NewBookingService(txMgr, parks, bookings, nil, commons.NewKeyedMutex(), zap.NewNop())

	result, err := svc.CreateSingleDayBooking(ctx, park.ID, "Ada", domain.GuestCategoryAdult, dates[0])
	require.NoError(t, err)
	require.True(t, result.Created())

	ok, err := svc.CancelBooking(ctx, result.Booking.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := parks.GetByID(ctx, park.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.AvailableGuestCapacity)
	assert.True(t, stored.IsDateAvailable(dates[0]))

	byPark, err := svc.ListBookingsByPark(ctx, park.ID)
	require.NoError(t, err)
	require.Len(t, byPark, 1)
	assert.Equal(t, domain.BookingStatusCancelled, byPark[0].Status)
}
