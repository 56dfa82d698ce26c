package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"parkbooking/internal/checkout/service"
	"parkbooking/internal/domain"
	"parkbooking/internal/dto"
	apperrors "parkbooking/internal/errors"
)

type CheckoutService interface {
	ProcessPayment(ctx context.Context, cartID uuid.UUID, in service.CheckoutInput) (service.Receipt, error)
}

type CartService interface {
	SettleCart(ctx context.Context, cartID uuid.UUID, paid []domain.CartItem) (int, error)
}

type CheckoutController struct {
	checkout CheckoutService
	carts    CartService
	logger   *zap.Logger
}

func NewCheckoutController(checkout CheckoutService, carts CartService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		checkout: checkout,
		carts:    carts,
		logger:   logger,
	}
}

// Checkout charges the cart and, once the gateway approves, removes exactly the
// items that were charged. Anything added to the cart meanwhile stays there.
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetReqID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CheckoutRequest
	if !c.decode(w, r, &req) {
		return
	}
	if err := c.validateCheckoutRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	receipt, err := c.checkout.ProcessPayment(r.Context(), req.CartID, service.CheckoutInput{
		CardholderName: req.CardholderName,
		CardNumber:     req.CardNumber,
		Expiration:     req.ExpirationMonthYear,
		CVC:            req.CVC,
		Street:         req.Street,
		City:           req.City,
		State:          req.State,
		PostalCode:     req.PostalCode,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	response := dto.CheckoutResponse{
		TraceID:   traceID,
		Success:   receipt.Result.Success,
		Message:   receipt.Result.Message,
		Timestamp: time.Now().UTC(),
	}
	if !receipt.Result.Success {
		logger.Info("checkout declined", zap.String("cartId", req.CartID.String()))
		c.writeJSON(w, http.StatusOK, response)
		return
	}

	charged := receipt.Charged
	if _, err := c.carts.SettleCart(r.Context(), req.CartID, charged.Items); err != nil {
		logger.Error("failed to settle cart after payment", zap.String("cartId", req.CartID.String()), zap.Error(err))
	}

	response.Amount = charged.TotalWithTax.Amount().StringFixed(2)
	response.Currency = charged.TotalWithTax.Currency()
	for _, item := range charged.Items {
		response.BookingIDs = append(response.BookingIDs, item.BookingID)
	}
	logger.Info("checkout completed", zap.String("cartId", req.CartID.String()), zap.String("amount", response.Amount))
	c.writeJSON(w, http.StatusOK, response)
}

func (c *CheckoutController) validateCheckoutRequest(req dto.CheckoutRequest) error {
	var details []apperrors.ValidationDetail

	if req.CartID == uuid.Nil {
		details = append(details, apperrors.ValidationDetail{Field: "cartId", Message: "cartId is required"})
	}
	required := []struct {
		field string
		value string
	}{
		{"cardholderName", req.CardholderName},
		{"cardNumber", req.CardNumber},
		{"expirationMonthYear", req.ExpirationMonthYear},
		{"cvc", req.CVC},
		{"street", req.Street},
		{"city", req.City},
		{"state", req.State},
		{"postalCode", req.PostalCode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			details = append(details, apperrors.ValidationDetail{Field: r.field, Message: r.field + " is required"})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
