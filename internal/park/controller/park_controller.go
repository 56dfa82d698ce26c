package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parkbooking/internal/domain"
	"parkbooking/internal/dto"
	apperrors "parkbooking/internal/errors"
)

// maxAvailableDays caps the rolling window a create request may open.
const maxAvailableDays = 366

type ParkService interface {
	ListParks(ctx context.Context) ([]*domain.Park, error)
	GetPark(ctx context.Context, id uuid.UUID) (*domain.Park, error)
	AddPark(ctx context.Context, park *domain.Park) error
	RemovePark(ctx context.Context, id uuid.UUID) (bool, error)
	AddGuestCapacity(ctx context.Context, id uuid.UUID, guestsToAdd int) (*domain.Park, error)
	RemoveGuestCapacity(ctx context.Context, id uuid.UUID, guestsToRemove int) (*domain.Park, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price domain.Money) (*domain.Park, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, name, description, location string) (*domain.Park, error)
}

type ParkController struct {
	service ParkService
	logger  *zap.Logger
}

func NewParkController(service ParkService, logger *zap.Logger) *ParkController {
	return &ParkController{
		service: service,
		logger:  logger,
	}
}

func (c *ParkController) ListParks(w http.ResponseWriter, r *http.Request) {
	parks, err := c.service.ListParks(r.Context())
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewParkResponses(parks))
}

func (c *ParkController) GetPark(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	park, err := c.service.GetPark(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if park == nil {
		c.writeNotFound(w, r, id)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewParkResponse(park))
}

func (c *ParkController) CreatePark(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateParkRequest
	if !c.decode(w, r, &req) {
		return
	}

	dates, err := c.validateCreateParkRequest(req)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	park, err := domain.NewPark(uuid.New(), req.Name, req.Description, req.Location, req.GuestLimit,
		domain.NewMoney(req.PricePerGuestPerDay, req.Currency), dates)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if err := c.service.AddPark(r.Context(), park); err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/parks/"+park.ID.String())
	c.writeJSON(w, http.StatusCreated, dto.NewParkResponse(park))
}

func (c *ParkController) validateCreateParkRequest(req dto.CreateParkRequest) ([]domain.Date, error) {
	var details []apperrors.ValidationDetail

	if req.GuestLimit <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "guestLimit",
			Message: "guestLimit must be a positive integer",
		})
	}
	if req.PricePerGuestPerDay.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "pricePerGuestPerDay",
			Message: "pricePerGuestPerDay must be non-negative",
		})
	}
	if req.AvailableDays < 0 || req.AvailableDays > maxAvailableDays {
		details = append(details, apperrors.ValidationDetail{
			Field:   "availableDays",
			Message: "availableDays must be between 0 and " + strconv.Itoa(maxAvailableDays),
		})
	}
	if !validCurrency(req.Currency) {
		details = append(details, currencyDetail)
	}

	var dates []domain.Date
	for idx, s := range req.AvailableDates {
		d, err := domain.ParseDate(s)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   "availableDates[" + strconv.Itoa(idx) + "]",
				Message: "dates must use the YYYY-MM-DD format",
			})
			continue
		}
		dates = append(dates, d)
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	today := domain.Today()
	for i := 0; i < req.AvailableDays; i++ {
		dates = append(dates, today.AddDays(i))
	}
	return dates, nil
}

var currencyDetail = apperrors.ValidationDetail{
	Field:   "currency",
	Message: "currency must be a 3-letter ISO 4217 code",
}

// validCurrency accepts an empty code, which falls back to the default.
func validCurrency(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return true
	}
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		ch := code[i] | 0x20
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func (c *ParkController) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateParkRequest
	if !c.decode(w, r, &req) {
		return
	}

	park, err := c.service.UpdateDetails(r.Context(), id, req.Name, req.Description, req.Location)
	c.writeParkResult(w, r, id, park, err)
}

func (c *ParkController) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}
	var req dto.UpdatePriceRequest
	if !c.decode(w, r, &req) {
		return
	}

	if !validCurrency(req.Currency) {
		c.writeValidationError(w, "validation failed", currencyDetail)
		return
	}

	park, err := c.service.UpdatePrice(r.Context(), id, domain.NewMoney(req.PricePerGuestPerDay, req.Currency))
	c.writeParkResult(w, r, id, park, err)
}

func (c *ParkController) AddGuestCapacity(w http.ResponseWriter, r *http.Request) {
	c.changeGuestCapacity(w, r, c.service.AddGuestCapacity)
}

func (c *ParkController) RemoveGuestCapacity(w http.ResponseWriter, r *http.Request) {
	c.changeGuestCapacity(w, r, c.service.RemoveGuestCapacity)
}

func (c *ParkController) changeGuestCapacity(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id uuid.UUID, guests int) (*domain.Park, error),
) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}
	var req dto.GuestCapacityRequest
	if !c.decode(w, r, &req) {
		return
	}
	if req.Guests <= 0 {
		c.writeValidationError(w, "guests must be a positive integer", apperrors.ValidationDetail{
			Field:   "guests",
			Message: "guests must be a positive integer",
		})
		return
	}

	park, err := apply(r.Context(), id, req.Guests)
	c.writeParkResult(w, r, id, park, err)
}

func (c *ParkController) DeletePark(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	removed, err := c.service.RemovePark(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if !removed {
		c.writeNotFound(w, r, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ParkController) writeParkResult(w http.ResponseWriter, r *http.Request, id uuid.UUID, park *domain.Park, err error) {
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if park == nil {
		c.writeNotFound(w, r, id)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.NewParkResponse(park))
}
