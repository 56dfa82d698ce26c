package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parkbooking/internal/commons"
	"parkbooking/internal/domain"
)

type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CartRepository interface {
	GetOrCreate(ctx context.Context, id *uuid.UUID) (*domain.Cart, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	Update(ctx context.Context, cart *domain.Cart) error
	Remove(ctx context.Context, id uuid.UUID) (bool, error)
	GetAll(ctx context.Context) ([]*domain.Cart, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

type ParkReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Park, error)
}

type CartService struct {
	txMgr    TransactionManager
	carts    CartRepository
	bookings BookingReader
	parks    ParkReader
	locks    *commons.KeyedMutex
	logger   *zap.Logger
}

func NewCartService(
	txMgr TransactionManager,
	carts CartRepository,
	bookings BookingReader,
	parks ParkReader,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		txMgr:    txMgr,
		carts:    carts,
		bookings: bookings,
		parks:    parks,
		locks:    commons.NewKeyedMutex(),
		logger:   logger,
	}
}

// GetOrCreateCart loads the cart with id, creating it when id is nil or unknown.
func (s *CartService) GetOrCreateCart(ctx context.Context, id *uuid.UUID) (*domain.Cart, error) {
	if id == nil {
		cart, err := s.carts.GetOrCreate(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("creating cart: %w", err)
		}
		s.logger.Info("cart created", zap.String("cartId", cart.ID.String()))
		return cart, nil
	}

	var cart *domain.Cart
	err := s.withCart(ctx, *id, func(ctx context.Context, c *domain.Cart) (bool, error) {
		cart = c
		return false, nil
	})
	return cart, err
}

// GetCart returns nil when the cart does not exist.
func (s *CartService) GetCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	cart, err := s.carts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) ListCarts(ctx context.Context) ([]*domain.Cart, error) {
	return s.carts.GetAll(ctx)
}

func (s *CartService) DeleteCart(ctx context.Context, id uuid.UUID) (bool, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	removed, err := s.carts.Remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("removing cart: %w", err)
	}
	if removed {
		s.logger.Info("cart deleted", zap.String("cartId", id.String()))
	}
	return removed, nil
}

// AddBookingToCart upserts an item for the booking priced at the booking's
// total. It reports false when the booking does not exist.
func (s *CartService) AddBookingToCart(ctx context.Context, cartID, bookingID uuid.UUID, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidArgument)
	}

	var added bool
	err := s.withCart(ctx, cartID, func(ctx context.Context, cart *domain.Cart) (bool, error) {
		booking, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil || booking == nil {
			return false, err
		}

		parkName := booking.ParkID.String()
		park, err := s.parks.GetByID(ctx, booking.ParkID)
		if err != nil {
			return false, err
		}
		if park != nil {
			parkName = park.Name
		}

		item, err := domain.NewCartItem(booking.ID, parkName, quantity, booking.TotalPrice())
		if err != nil {
			return false, err
		}
		cart.AddOrUpdateItem(item)
		added = true
		return true, nil
	})
	if err != nil {
		return false, err
	}

	if added {
		s.logger.Info("booking added to cart",
			zap.String("cartId", cartID.String()),
			zap.String("bookingId", bookingID.String()),
			zap.Int("quantity", quantity),
		)
	}
	return added, nil
}

func (s *CartService) RemoveBookingFromCart(ctx context.Context, cartID, bookingID uuid.UUID) (bool, error) {
	return s.modify(ctx, cartID, "booking removed from cart", func(cart *domain.Cart) bool {
		return cart.RemoveItem(bookingID)
	})
}

// UndoLastChange reports false, without persisting, when the cart has no history.
func (s *CartService) UndoLastChange(ctx context.Context, cartID uuid.UUID) (bool, error) {
	return s.modify(ctx, cartID, "cart change undone", func(cart *domain.Cart) bool {
		return cart.Undo()
	})
}

func (s *CartService) ClearCart(ctx context.Context, cartID uuid.UUID) (bool, error) {
	return s.modify(ctx, cartID, "cart cleared", func(cart *domain.Cart) bool {
		cart.Clear()
		return true
	})
}

// CalculateTotals prices the cart without creating it; an unknown cart totals zero.
func (s *CartService) CalculateTotals(ctx context.Context, cartID uuid.UUID) (CartTotals, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return CartTotals{}, err
	}
	if cart == nil {
		cart = domain.NewCart(cartID)
	}
	return ComputeTotals(cart)
}

// SettleCart removes the paid items from the cart. Items added or edited after
// they were priced stay in the cart. It returns how many items were removed.
func (s *CartService) SettleCart(ctx context.Context, cartID uuid.UUID, paid []domain.CartItem) (int, error) {
	unlock := s.locks.Lock(cartID.String())
	defer unlock()

	var removed int
	err := s.txMgr.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.carts.GetByID(ctx, cartID)
		if err != nil {
			return fmt.Errorf("loading cart: %w", err)
		}
		if cart == nil {
			return nil
		}

		removed = cart.RemoveItems(paid)
		if removed == 0 {
			return nil
		}
		if err := s.carts.Update(ctx, cart); err != nil {
			return fmt.Errorf("saving cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("cart settled",
		zap.String("cartId", cartID.String()),
		zap.Int("paidItems", len(paid)),
		zap.Int("removedItems", removed),
	)
	return removed, nil
}

func (s *CartService) modify(ctx context.Context, cartID uuid.UUID, action string, fn func(cart *domain.Cart) bool) (bool, error) {
	var changed bool
	err := s.withCart(ctx, cartID, func(ctx context.Context, cart *domain.Cart) (bool, error) {
		changed = fn(cart)
		return changed, nil
	})
	if err != nil {
		return false, err
	}
	if changed {
		s.logger.Info(action, zap.String("cartId", cartID.String()))
	}
	return changed, nil
}

// withCart runs fn on the loaded cart under the cart's lock and persists the
// cart when fn reports a change.
func (s *CartService) withCart(ctx context.Context, cartID uuid.UUID, fn func(ctx context.Context, cart *domain.Cart) (bool, error)) error {
	unlock := s.locks.Lock(cartID.String())
	defer unlock()

	return s.txMgr.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.carts.GetOrCreate(ctx, &cartID)
		if err != nil {
			return fmt.Errorf("loading cart: %w", err)
		}

		changed, err := fn(ctx, cart)
		if err != nil || !changed {
			return err
		}

		if err := s.carts.Update(ctx, cart); err != nil {
			return fmt.Errorf("saving cart: %w", err)
		}
		return nil
	})
}
