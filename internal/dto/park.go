package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"parkbooking/internal/domain"
)

// CreateParkRequest opens either the listed dates or AvailableDays consecutive
// days starting today.
type CreateParkRequest struct {
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Location            string          `json:"location"`
	GuestLimit          int             `json:"guestLimit"`
	PricePerGuestPerDay decimal.Decimal `json:"pricePerGuestPerDay"`
	Currency            string          `json:"currency"`
	AvailableDates      []string        `json:"availableDates"`
	AvailableDays       int             `json:"availableDays"`
}

type UpdateParkRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type GuestCapacityRequest struct {
	Guests int `json:"guests"`
}

type UpdatePriceRequest struct {
	PricePerGuestPerDay decimal.Decimal `json:"pricePerGuestPerDay"`
	Currency            string          `json:"currency"`
}

type ParkResponse struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	Location               string    `json:"location"`
	GuestLimit             int       `json:"guestLimit"`
	AvailableGuestCapacity int       `json:"availableGuestCapacity"`
	PricePerGuestPerDay    string    `json:"pricePerGuestPerDay"`
	Currency               string    `json:"currency"`
	AvailableDates         []string  `json:"availableDates"`
	CreatedAt              time.Time `json:"createdAt"`
	LastModifiedAt         time.Time `json:"lastModifiedAt"`
}

func NewParkResponse(p *domain.Park) ParkResponse {
	return ParkResponse{
		ID:                     p.ID,
		Name:                   p.Name,
		Description:            p.Description,
		Location:               p.Location,
		GuestLimit:             p.GuestLimit,
		AvailableGuestCapacity: p.AvailableGuestCapacity,
		PricePerGuestPerDay:    p.PricePerGuestPerDay.Amount().StringFixed(2),
		Currency:               p.PricePerGuestPerDay.Currency(),
		AvailableDates:         dateStrings(p.AvailableDates()),
		CreatedAt:              p.CreatedAt,
		LastModifiedAt:         p.LastModifiedAt,
	}
}

func NewParkResponses(parks []*domain.Park) []ParkResponse {
	out := make([]ParkResponse, 0, len(parks))
	for _, p := range parks {
		out = append(out, NewParkResponse(p))
	}
	return out
}

func dateStrings(dates []domain.Date) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	return out
}
