package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"parkbooking/internal/cart/service"
	"parkbooking/internal/domain"
	"parkbooking/internal/dto"
	apperrors "parkbooking/internal/errors"
)

type CartService interface {
	GetOrCreateCart(ctx context.Context, id *uuid.UUID) (*domain.Cart, error)
	GetCart(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	AddBookingToCart(ctx context.Context, cartID, bookingID uuid.UUID, quantity int) (bool, error)
	RemoveBookingFromCart(ctx context.Context, cartID, bookingID uuid.UUID) (bool, error)
	UndoLastChange(ctx context.Context, cartID uuid.UUID) (bool, error)
	ClearCart(ctx context.Context, cartID uuid.UUID) (bool, error)
	CalculateTotals(ctx context.Context, cartID uuid.UUID) (service.CartTotals, error)
	DeleteCart(ctx context.Context, id uuid.UUID) (bool, error)
}

type CartController struct {
	service CartService
	logger  *zap.Logger
}

func NewCartController(service CartService, logger *zap.Logger) *CartController {
	return &CartController{
		service: service,
		logger:  logger,
	}
}

// CreateCart accepts an optional body naming the id to create or resume.
func (c *CartController) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	cart, err := c.service.GetOrCreateCart(r.Context(), req.ID)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/carts/"+cart.ID.String())
	c.writeJSON(w, http.StatusCreated, dto.NewCartResponse(cart))
}

func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "cart")
	if !ok {
		return
	}

	c.writeCart(w, r, id)
}

func (c *CartController) DeleteCart(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "cart")
	if !ok {
		return
	}

	deleted, err := c.service.DeleteCart(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if !deleted {
		c.writeNotFound(w, r, "cart", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "cart")
	if !ok {
		return
	}
	var req dto.AddCartItemRequest
	if !c.decode(w, r, &req) {
		return
	}
	if err := c.validateAddItemRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	added, err := c.service.AddBookingToCart(r.Context(), id, req.BookingID, req.Quantity)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if !added {
		c.writeNotFound(w, r, "booking", req.BookingID)
		return
	}
	c.writeCart(w, r, id)
}

func (c *CartController) validateAddItemRequest(req dto.AddCartItemRequest) error {
	var details []apperrors.ValidationDetail

	if req.BookingID == uuid.Nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "bookingId",
			Message: "bookingId is required",
		})
	}
	if req.Quantity <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "cart")
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingId"))
	if err != nil {
		c.writeValidationError(w, "invalid booking id", apperrors.ValidationDetail{
			Field:   "bookingId",
			Message: "bookingId must be a valid UUID",
		})
		return
	}

	removed, err := c.service.RemoveBookingFromCart(r.Context(), id, bookingID)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if !removed {
		c.writeNotFound(w, r, "cart item", bookingID)
		return
	}
	c.writeCart(w, r, id)
}

func (c *CartController) Undo(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "cart")
	if !ok {
		return
	}

	undone, err := c.service.UndoLastChange(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if !undone {
		c.writeError(w, middleware.GetReqID(r.Context()), http.StatusConflict, "NOTHING_TO_UNDO", "cart has no changes to undo")
		return
	}
	c.writeCart(w, r, id)
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "cart")
	if !ok {
		return
	}

	if _, err := c.service.ClearCart(r.Context(), id); err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	c.writeCart(w, r, id)
}

func (c *CartController) Totals(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "cart")
	if !ok {
		return
	}

	totals, err := c.service.CalculateTotals(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.CartTotalsResponse{
		CartID:          id,
		RegularTotal:    totals.RegularTotal.Amount().StringFixed(2),
		DiscountedTotal: totals.DiscountedTotal.Amount().StringFixed(2),
		Tax:             totals.Tax.Amount().StringFixed(2),
		TotalWithTax:    totals.TotalWithTax.Amount().StringFixed(2),
		Currency:        totals.TotalWithTax.Currency(),
		Items:           dto.NewCartItemResponses(totals.Items),
	})
}

// writeCart reads without creating, so an unknown id is a 404.
func (c *CartController) writeCart(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	cart, err := c.service.GetCart(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if cart == nil {
		c.writeNotFound(w, r, "cart", id)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewCartResponse(cart))
}
