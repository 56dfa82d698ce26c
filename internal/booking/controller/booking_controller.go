package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"parkbooking/internal/booking/service"
	"parkbooking/internal/domain"
	"parkbooking/internal/dto"
	apperrors "parkbooking/internal/errors"
)

type BookingService interface {
	ListBookings(ctx context.Context) ([]*domain.Booking, error)
	ListBookingsByPark(ctx context.Context, parkID uuid.UUID) ([]*domain.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	CreateMultiDayBooking(ctx context.Context, parkID uuid.UUID, guestName string, guests, dayCount int) (service.CreateResult, error)
	CreateSingleDayBooking(ctx context.Context, parkID uuid.UUID, guestName string, category domain.GuestCategory, date domain.Date) (service.CreateResult, error)
	CancelBooking(ctx context.Context, id uuid.UUID) (bool, error)
	RemoveBooking(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookingController struct {
	service BookingService
	logger  *zap.Logger
}

func NewBookingController(service BookingService, logger *zap.Logger) *BookingController {
	return &BookingController{
		service: service,
		logger:  logger,
	}
}

func (c *BookingController) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := c.service.ListBookings(r.Context())
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewBookingResponses(bookings))
}

func (c *BookingController) ListParkBookings(w http.ResponseWriter, r *http.Request) {
	parkID, ok := c.parseID(w, r, "park")
	if !ok {
		return
	}

	bookings, err := c.service.ListBookingsByPark(r.Context(), parkID)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewBookingResponses(bookings))
}

func (c *BookingController) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "booking")
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if booking == nil {
		c.writeNotFound(w, r, "booking", id)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewBookingResponse(booking))
}

func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	parkID, ok := c.parseID(w, r, "park")
	if !ok {
		return
	}
	var req dto.CreateBookingRequest
	if !c.decode(w, r, &req) {
		return
	}

	var (
		result service.CreateResult
		err    error
	)
	if strings.TrimSpace(req.Date) != "" {
		date, category, verr := c.validateSingleDayRequest(req)
		if verr != nil {
			ve, _ := apperrors.IsValidationError(verr)
			c.writeValidationError(w, ve.Message, ve.Details...)
			return
		}
		result, err = c.service.CreateSingleDayBooking(r.Context(), parkID, req.GuestName, category, date)
	} else {
		if verr := c.validateMultiDayRequest(req); verr != nil {
			ve, _ := apperrors.IsValidationError(verr)
			c.writeValidationError(w, ve.Message, ve.Details...)
			return
		}
		result, err = c.service.CreateMultiDayBooking(r.Context(), parkID, req.GuestName, req.Guests, req.DayCount)
	}
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	switch result.Outcome {
	case service.OutcomeParkNotFound:
		c.writeNotFound(w, r, "park", parkID)
	case service.OutcomeUnavailable:
		c.writeError(w, middleware.GetReqID(r.Context()), http.StatusConflict, "UNAVAILABLE",
			"park does not have enough capacity or open dates for this booking")
	default:
		w.Header().Set("Location", "/api/bookings/"+result.Booking.ID.String())
		c.writeJSON(w, http.StatusCreated, dto.NewBookingResponse(result.Booking))
	}
}

func (c *BookingController) validateMultiDayRequest(req dto.CreateBookingRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.GuestName) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "guestName",
			Message: "guestName is required",
		})
	}
	if req.Guests <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "guests",
			Message: "guests must be a positive integer",
		})
	}
	if req.DayCount <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "dayCount",
			Message: "dayCount must be a positive integer",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (c *BookingController) validateSingleDayRequest(req dto.CreateBookingRequest) (domain.Date, domain.GuestCategory, error) {
	var details []apperrors.ValidationDetail

	date, err := domain.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "date",
			Message: "date must use the YYYY-MM-DD format",
		})
	}
	category, err := domain.ParseGuestCategory(req.GuestCategory)
	if err != nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "guestCategory",
			Message: "guestCategory must be ADULT or CHILD",
		})
	}

	if len(details) > 0 {
		return domain.Date{}, "", apperrors.NewValidationError("validation failed", details...)
	}
	return date, category, nil
}

func (c *BookingController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "booking")
	if !ok {
		return
	}

	cancelled, err := c.service.CancelBooking(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if !cancelled {
		c.writeNotFound(w, r, "active booking", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *BookingController) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r, "booking")
	if !ok {
		return
	}

	removed, err := c.service.RemoveBooking(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if !removed {
		c.writeNotFound(w, r, "booking", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
