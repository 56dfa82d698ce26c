package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cartservice "parkbooking/internal/cart/service"
	"parkbooking/internal/domain"
)

type TotalsCalculator interface {
	CalculateTotals(ctx context.Context, cartID uuid.UUID) (cartservice.CartTotals, error)
}

type Gateway interface {
	Process(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error)
}

type CheckoutInput struct {
	CardholderName string
	CardNumber     string
	Expiration     string
	CVC            string
	Street         string
	City           string
	State          string
	PostalCode     string
}

// Receipt is the gateway's answer together with the cart totals that were
// charged. Callers settle the cart against Charged, not a fresh read.
type Receipt struct {
	Result  domain.PaymentResult
	Charged cartservice.CartTotals
}

// CheckoutService validates the card, prices the cart and hands the charge to
// the gateway. It never changes the cart.
type CheckoutService struct {
	totals  TotalsCalculator
	gateway Gateway
	now     func() time.Time
	logger  *zap.Logger
}

func NewCheckoutService(totals TotalsCalculator, gateway Gateway, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		totals:  totals,
		gateway: gateway,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *CheckoutService) ProcessPayment(ctx context.Context, cartID uuid.UUID, in CheckoutInput) (Receipt, error) {
	req, err := s.validate(cartID, in)
	if err != nil {
		s.logger.Info("payment rejected", zap.String("cartId", cartID.String()), zap.Error(err))
		return Receipt{}, err
	}

	totals, err := s.totals.CalculateTotals(ctx, cartID)
	if err != nil {
		return Receipt{}, fmt.Errorf("calculating cart totals: %w", err)
	}
	req.Amount = totals.TotalWithTax

	result, err := s.gateway.Process(ctx, req)
	if err != nil {
		s.logger.Error("payment gateway failed", zap.String("cartId", cartID.String()), zap.Error(err))
		return Receipt{}, fmt.Errorf("processing payment: %w", err)
	}

	s.logger.Info("payment processed",
		zap.String("cartId", cartID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Bool("success", result.Success),
	)
	return Receipt{Result: result, Charged: totals}, nil
}

func (s *CheckoutService) validate(cartID uuid.UUID, in CheckoutInput) (domain.PaymentRequest, error) {
	if cartID == uuid.Nil {
		return domain.PaymentRequest{}, fmt.Errorf("%w: cart id is required", domain.ErrInvalidArgument)
	}
	name := strings.TrimSpace(in.CardholderName)
	if name == "" {
		return domain.PaymentRequest{}, fmt.Errorf("%w: cardholder name is required", domain.ErrInvalidArgument)
	}
	if err := domain.ValidateCardNumber(in.CardNumber); err != nil {
		return domain.PaymentRequest{}, err
	}
	if err := domain.ValidateExpiration(in.Expiration, s.now()); err != nil {
		return domain.PaymentRequest{}, err
	}
	if err := domain.ValidateCVC(in.CVC); err != nil {
		return domain.PaymentRequest{}, err
	}
	address, err := domain.NewAddress(in.Street, in.City, in.State, in.PostalCode)
	if err != nil {
		return domain.PaymentRequest{}, err
	}

	return domain.PaymentRequest{
		CartID:         cartID,
		CardholderName: name,
		CardNumber:     domain.DigitsOnly(in.CardNumber),
		Expiration:     strings.TrimSpace(in.Expiration),
		CVC:            in.CVC,
		BillingAddress: address,
	}, nil
}
