package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"parkbooking/internal/domain"
)

type mockTransactionManager struct {
	WithinTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithinTransactionFunc == nil {
		return fn(ctx)
	}
	return m.WithinTransactionFunc(ctx, fn)
}

type mockPublisher struct {
	mu         sync.Mutex
	events     []domain.BookingEvent
	PublishErr error
}

func (m *mockPublisher) Publish(_ context.Context, event domain.BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.PublishErr
}

func (m *mockPublisher) Events() []domain.BookingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.BookingEvent(nil), m.events...)
}

// memoryParkRepository stores copies so callers never share a *domain.Park with the store.
type memoryParkRepository struct {
	mu    sync.Mutex
	parks map[uuid.UUID]*domain.Park
}

func newMemoryParkRepository(parks ...*domain.Park) *memoryParkRepository {
	r := &memoryParkRepository{parks: make(map[uuid.UUID]*domain.Park)}
	for _, p := range parks {
		r.parks[p.ID] = cloneParkForTest(p)
	}
	return r
}

func (r *memoryParkRepository) GetByIDForUpdate(_ context.Context, id uuid.UUID) (*domain.Park, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parks[id]
	if !ok {
		return nil, nil
	}
	return cloneParkForTest(p), nil
}

func (r *memoryParkRepository) Update(_ context.Context, park *domain.Park) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parks[park.ID] = cloneParkForTest(park)
	return nil
}

func (r *memoryParkRepository) get(id uuid.UUID) *domain.Park {
	p, _ := r.GetByIDForUpdate(context.Background(), id)
	return p
}

func cloneParkForTest(p *domain.Park) *domain.Park {
	return domain.RestorePark(p.ID, p.Name, p.Description, p.Location, p.GuestLimit, p.AvailableGuestCapacity,
		p.PricePerGuestPerDay, p.AvailableDates(), p.CreatedAt, p.LastModifiedAt)
}

type memoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*domain.Booking
	AddErr   error
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: make(map[uuid.UUID]*domain.Booking)}
}

func (r *memoryBookingRepository) GetAll(_ context.Context) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, cloneBookingForTest(b))
	}
	return out, nil
}

func (r *memoryBookingRepository) GetByPark(_ context.Context, parkID uuid.UUID) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.ParkID == parkID {
			out = append(out, cloneBookingForTest(b))
		}
	}
	return out, nil
}

func (r *memoryBookingRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return cloneBookingForTest(b), nil
}

func (r *memoryBookingRepository) Add(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AddErr != nil {
		return r.AddErr
	}
	r.bookings[booking.ID] = cloneBookingForTest(booking)
	return nil
}

func (r *memoryBookingRepository) Update(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = cloneBookingForTest(booking)
	return nil
}

func (r *memoryBookingRepository) Remove(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return false, nil
	}
	delete(r.bookings, id)
	return true, nil
}

func cloneBookingForTest(b *domain.Booking) *domain.Booking {
	return domain.RestoreBooking(b.ID, b.ParkID, b.GuestName, b.Guests, b.StartDate, b.DayCount, b.PricePerDay,
		b.ReservedDates(), b.Status, b.CreatedAt, b.CancelledAt, b.GuestCategory)
}
