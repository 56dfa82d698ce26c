package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"parkbooking/internal/commons"
	"parkbooking/internal/domain"
)

const defaultGuestName = "Guest"

var childPriceFactor = decimal.RequireFromString("0.6")

type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ParkRepository interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Park, error)
	Update(ctx context.Context, park *domain.Park) error
}

type BookingRepository interface {
	GetAll(ctx context.Context) ([]*domain.Booking, error)
	GetByPark(ctx context.Context, parkID uuid.UUID) ([]*domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	Add(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	Remove(ctx context.Context, id uuid.UUID) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

type Outcome string

const (
	OutcomeCreated      Outcome = "created"
	OutcomeParkNotFound Outcome = "park_not_found"
	OutcomeUnavailable  Outcome = "unavailable"
)

// CreateResult carries the booking when Outcome is OutcomeCreated.
type CreateResult struct {
	Outcome Outcome
	Booking *domain.Booking
}

func (r CreateResult) Created() bool {
	return r.Outcome == OutcomeCreated
}

// BookingService keeps a park's guest capacity and open dates in step with its
// active bookings. Every change to a park runs under that park's lock and in a
// single transaction covering both the park and the booking.
type BookingService struct {
	txMgr     TransactionManager
	parks     ParkRepository
	bookings  BookingRepository
	publisher EventPublisher
	locks     *commons.KeyedMutex
	logger    *zap.Logger
}

func NewBookingService(
	txMgr TransactionManager,
	parks ParkRepository,
	bookings BookingRepository,
	publisher EventPublisher,
	locks *commons.KeyedMutex,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		txMgr:     txMgr,
		parks:     parks,
		bookings:  bookings,
		publisher: publisher,
		locks:     locks,
		logger:    logger,
	}
}

func (s *BookingService) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookings.GetAll(ctx)
}

func (s *BookingService) ListBookingsByPark(ctx context.Context, parkID uuid.UUID) ([]*domain.Booking, error) {
	return s.bookings.GetByPark(ctx, parkID)
}

// GetBooking returns nil, nil when the booking does not exist.
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// CreateMultiDayBooking books guests for the dayCount earliest open dates of the park.
func (s *BookingService) CreateMultiDayBooking(
	ctx context.Context,
	parkID uuid.UUID,
	guestName string,
	guests int,
	dayCount int,
) (CreateResult, error) {
	if guests <= 0 {
		return CreateResult{}, fmt.Errorf("%w: guests must be positive", domain.ErrInvalidArgument)
	}
	if dayCount <= 0 {
		return CreateResult{}, fmt.Errorf("%w: dayCount must be positive", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(guestName) == "" {
		return CreateResult{}, fmt.Errorf("%w: guest name cannot be empty", domain.ErrInvalidArgument)
	}

	return s.create(ctx, parkID, func(park *domain.Park) (*domain.Booking, error) {
		if !park.HasAvailabilityFor(guests) {
			return nil, nil
		}
		dates, ok, err := park.TryReserveDates(dayCount)
		if err != nil || !ok {
			return nil, err
		}
		if err := park.ReserveGuests(guests); err != nil {
			return nil, err
		}
		return domain.NewBooking(
			park.ID, guestName, guests, dates[0], dayCount,
			park.PricePerGuestPerDay, dates, domain.GuestCategoryAdult,
		)
	})
}

// CreateSingleDayBooking books one guest on a specific date. Children pay 60%
// of the park's price; a blank name is recorded as "Guest".
func (s *BookingService) CreateSingleDayBooking(
	ctx context.Context,
	parkID uuid.UUID,
	guestName string,
	category domain.GuestCategory,
	date domain.Date,
) (CreateResult, error) {
	if date.IsZero() {
		return CreateResult{}, fmt.Errorf("%w: date is required", domain.ErrInvalidArgument)
	}
	if category == "" {
		category = domain.GuestCategoryAdult
	}
	name := strings.TrimSpace(guestName)
	if name == "" {
		name = defaultGuestName
	}

	return s.create(ctx, parkID, func(park *domain.Park) (*domain.Booking, error) {
		if !park.HasAvailabilityFor(1) {
			return nil, nil
		}
		if !park.TryReserveSpecificDate(date) {
			return nil, nil
		}
		if err := park.ReserveGuests(1); err != nil {
			return nil, err
		}
		price := park.PricePerGuestPerDay
		if category == domain.GuestCategoryChild {
			price = price.Mul(childPriceFactor)
		}
		return domain.NewBooking(park.ID, name, 1, date, 1, price, []domain.Date{date}, category)
	})
}

// create loads the park, lets reserve mutate it and build the booking, then
// persists both. A nil booking from reserve means the park could not satisfy
// the request and nothing is written.
func (s *BookingService) create(
	ctx context.Context,
	parkID uuid.UUID,
	reserve func(park *domain.Park) (*domain.Booking, error),
) (CreateResult, error) {
	unlock := s.locks.Lock(parkID.String())
	defer unlock()

	var result CreateResult
	err := s.txMgr.WithinTransaction(ctx, func(ctx context.Context) error {
		park, err := s.parks.GetByIDForUpdate(ctx, parkID)
		if err != nil {
			return err
		}
		if park == nil {
			result = CreateResult{Outcome: OutcomeParkNotFound}
			return nil
		}

		booking, err := reserve(park)
		if err != nil {
			return err
		}
		if booking == nil {
			result = CreateResult{Outcome: OutcomeUnavailable}
			return nil
		}
		if err := booking.Confirm(); err != nil {
			return err
		}

		if err := s.parks.Update(ctx, park); err != nil {
			return err
		}
		if err := s.bookings.Add(ctx, booking); err != nil {
			return err
		}

		result = CreateResult{Outcome: OutcomeCreated, Booking: booking}
		return nil
	})
	if err != nil {
		s.logger.Error("create booking failed", zap.String("parkId", parkID.String()), zap.Error(err))
		return CreateResult{}, err
	}

	if result.Created() {
		s.logger.Info("booking created",
			zap.String("bookingId", result.Booking.ID.String()),
			zap.String("parkId", parkID.String()),
			zap.Int("guests", result.Booking.Guests),
			zap.Int("dayCount", result.Booking.DayCount),
		)
		s.publish(ctx, domain.BookingEventConfirmed, result.Booking)
	} else {
		s.logger.Info("booking not created", zap.String("parkId", parkID.String()), zap.String("outcome", string(result.Outcome)))
	}
	return result, nil
}

// CancelBooking marks the booking cancelled and returns its guests and dates to
// the park. It reports false when the booking or its park is missing, or the
// booking was already cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var cancelled *domain.Booking
	ok, err := s.release(ctx, bookingID, func(ctx context.Context, booking *domain.Booking, park *domain.Park) (bool, error) {
		if !booking.IsActive() {
			return false, nil
		}
		if err := booking.Cancel(); err != nil {
			return false, err
		}
		if err := releaseClaim(park, booking); err != nil {
			return false, err
		}
		if err := s.bookings.Update(ctx, booking); err != nil {
			return false, err
		}
		if err := s.parks.Update(ctx, park); err != nil {
			return false, err
		}
		cancelled = booking
		return true, nil
	})
	if err != nil || !ok {
		return ok, err
	}

	s.logger.Info("booking cancelled", zap.String("bookingId", bookingID.String()), zap.String("parkId", cancelled.ParkID.String()))
	s.publish(ctx, domain.BookingEventCancelled, cancelled)
	return true, nil
}

// RemoveBooking deletes the booking record. An active booking first returns its
// guests and dates to the park; a cancelled one has already done so.
func (s *BookingService) RemoveBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var removed *domain.Booking
	ok, err := s.release(ctx, bookingID, func(ctx context.Context, booking *domain.Booking, park *domain.Park) (bool, error) {
		deleted, err := s.bookings.Remove(ctx, booking.ID)
		if err != nil || !deleted {
			return false, err
		}
		if booking.IsActive() {
			if err := releaseClaim(park, booking); err != nil {
				return false, err
			}
			if err := s.parks.Update(ctx, park); err != nil {
				return false, err
			}
		}
		removed = booking
		return true, nil
	})
	if err != nil || !ok {
		return ok, err
	}

	s.logger.Info("booking removed", zap.String("bookingId", bookingID.String()), zap.String("parkId", removed.ParkID.String()))
	s.publish(ctx, domain.BookingEventRemoved, removed)
	return true, nil
}

// release resolves the booking's park, takes its lock and runs apply inside a
// transaction with freshly loaded copies of both aggregates.
func (s *BookingService) release(
	ctx context.Context,
	bookingID uuid.UUID,
	apply func(ctx context.Context, booking *domain.Booking, park *domain.Park) (bool, error),
) (bool, error) {
	existing, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	unlock := s.locks.Lock(existing.ParkID.String())
	defer unlock()

	var ok bool
	err = s.txMgr.WithinTransaction(ctx, func(ctx context.Context) error {
		park, err := s.parks.GetByIDForUpdate(ctx, existing.ParkID)
		if err != nil {
			return err
		}
		booking, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if park == nil || booking == nil {
			ok = false
			return nil
		}

		ok, err = apply(ctx, booking, park)
		return err
	})
	if err != nil {
		s.logger.Error("release booking failed", zap.String("bookingId", bookingID.String()), zap.Error(err))
		return false, err
	}
	return ok, nil
}

func releaseClaim(park *domain.Park, booking *domain.Booking) error {
	if err := park.ReleaseGuests(booking.Guests); err != nil {
		return err
	}
	park.ReleaseDates(booking.ReservedDates())
	return nil
}

// publish is best effort: the booking change is already committed.
func (s *BookingService) publish(ctx context.Context, eventType domain.BookingEventType, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, domain.NewBookingEvent(eventType, booking)); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", string(eventType)),
			zap.String("bookingId", booking.ID.String()),
			zap.Error(err),
		)
	}
}
