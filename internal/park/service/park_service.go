package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parkbooking/internal/commons"
	"parkbooking/internal/domain"
	apperrors "parkbooking/internal/errors"
)

type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ParkRepository interface {
	GetAll(ctx context.Context) ([]*domain.Park, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Park, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Park, error)
	Add(ctx context.Context, park *domain.Park) error
	Update(ctx context.Context, park *domain.Park) error
	Remove(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookingReader interface {
	GetByPark(ctx context.Context, parkID uuid.UUID) ([]*domain.Booking, error)
}

// ParkService handles park administration. Mutations share the per-park lock
// used by the booking service so admin edits never interleave with a booking.
type ParkService struct {
	txMgr    TransactionManager
	parks    ParkRepository
	bookings BookingReader
	locks    *commons.KeyedMutex
	logger   *zap.Logger
}

func NewParkService(
	txMgr TransactionManager,
	parks ParkRepository,
	bookings BookingReader,
	locks *commons.KeyedMutex,
	logger *zap.Logger,
) *ParkService {
	return &ParkService{
		txMgr:    txMgr,
		parks:    parks,
		bookings: bookings,
		locks:    locks,
		logger:   logger,
	}
}

func (s *ParkService) ListParks(ctx context.Context) ([]*domain.Park, error) {
	return s.parks.GetAll(ctx)
}

// GetPark returns nil, nil when the park does not exist.
func (s *ParkService) GetPark(ctx context.Context, id uuid.UUID) (*domain.Park, error) {
	return s.parks.GetByID(ctx, id)
}

func (s *ParkService) AddPark(ctx context.Context, park *domain.Park) error {
	if err := s.parks.Add(ctx, park); err != nil {
		s.logger.Error("add park failed", zap.String("parkId", park.ID.String()), zap.Error(err))
		return err
	}
	s.logger.Info("park added", zap.String("parkId", park.ID.String()), zap.String("name", park.Name))
	return nil
}

// RemovePark deletes a park with no active bookings. It reports false when the
// park does not exist.
func (s *ParkService) RemovePark(ctx context.Context, id uuid.UUID) (bool, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	var removed bool
	err := s.txMgr.WithinTransaction(ctx, func(ctx context.Context) error {
		bookings, err := s.bookings.GetByPark(ctx, id)
		if err != nil {
			return err
		}
		for _, b := range bookings {
			if b.IsActive() {
				return apperrors.NewConflictError(fmt.Sprintf("park %s has active bookings", id))
			}
		}

		removed, err = s.parks.Remove(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.Info("park removed", zap.String("parkId", id.String()))
	}
	return removed, nil
}

// AddGuestCapacity raises the guest limit by guestsToAdd.
func (s *ParkService) AddGuestCapacity(ctx context.Context, id uuid.UUID, guestsToAdd int) (*domain.Park, error) {
	if guestsToAdd <= 0 {
		return nil, fmt.Errorf("%w: guestsToAdd must be positive", domain.ErrInvalidArgument)
	}
	return s.modify(ctx, id, "guest limit raised", func(p *domain.Park) error {
		return p.UpdateGuestLimit(p.GuestLimit + guestsToAdd)
	})
}

// RemoveGuestCapacity lowers the guest limit by guestsToRemove. The limit can
// not drop below the guests currently booked.
func (s *ParkService) RemoveGuestCapacity(ctx context.Context, id uuid.UUID, guestsToRemove int) (*domain.Park, error) {
	if guestsToRemove <= 0 {
		return nil, fmt.Errorf("%w: guestsToRemove must be positive", domain.ErrInvalidArgument)
	}
	return s.modify(ctx, id, "guest limit lowered", func(p *domain.Park) error {
		return p.UpdateGuestLimit(p.GuestLimit - guestsToRemove)
	})
}

func (s *ParkService) UpdatePrice(ctx context.Context, id uuid.UUID, price domain.Money) (*domain.Park, error) {
	return s.modify(ctx, id, "park price updated", func(p *domain.Park) error {
		return p.UpdatePrice(price)
	})
}

func (s *ParkService) UpdateDetails(ctx context.Context, id uuid.UUID, name, description, location string) (*domain.Park, error) {
	return s.modify(ctx, id, "park details updated", func(p *domain.Park) error {
		return p.UpdateDetails(name, description, location)
	})
}

// modify returns nil, nil when the park does not exist.
func (s *ParkService) modify(ctx context.Context, id uuid.UUID, action string, fn func(p *domain.Park) error) (*domain.Park, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	var park *domain.Park
	err := s.txMgr.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.parks.GetByIDForUpdate(ctx, id)
		if err != nil || p == nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := s.parks.Update(ctx, p); err != nil {
			return err
		}
		park = p
		return nil
	})
	if err != nil {
		s.logger.Warn("park update rejected", zap.String("parkId", id.String()), zap.String("action", action), zap.Error(err))
		return nil, err
	}

	if park != nil {
		s.logger.Info(action,
			zap.String("parkId", id.String()),
			zap.Int("guestLimit", park.GuestLimit),
			zap.Int("availableGuestCapacity", park.AvailableGuestCapacity),
		)
	}
	return park, nil
}
