package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Park is a bookable venue with a guest capacity and a set of open calendar days.
// A date is in the available set iff no active booking holds it.
type Park struct {
	ID                     uuid.UUID
	Name                   string
	Description            string
	Location               string
	GuestLimit             int
	AvailableGuestCapacity int
	PricePerGuestPerDay    Money
	CreatedAt              time.Time
	LastModifiedAt         time.Time

	availableDates map[Date]struct{}
}

func NewPark(id uuid.UUID, name, description, location string, guestLimit int, price Money, availability []Date) (*Park, error) {
	if guestLimit <= 0 {
		return nil, fmt.Errorf("%w: guest limit must be greater than zero", ErrInvalidArgument)
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	name, err := requireText(name, "name")
	if err != nil {
		return nil, err
	}
	description, err = requireText(description, "description")
	if err != nil {
		return nil, err
	}
	location, err = requireText(location, "location")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Park{
		ID:                     id,
		Name:                   name,
		Description:            description,
		Location:               location,
		GuestLimit:             guestLimit,
		AvailableGuestCapacity: guestLimit,
		PricePerGuestPerDay:    price,
		CreatedAt:              now,
		LastModifiedAt:         now,
		availableDates:         make(map[Date]struct{}, len(availability)),
	}
	for _, d := range availability {
		p.availableDates[d] = struct{}{}
	}
	return p, nil
}

// RestorePark rebuilds a park from persisted state without re-running creation rules.
func RestorePark(
	id uuid.UUID,
	name, description, location string,
	guestLimit, availableGuestCapacity int,
	price Money,
	availableDates []Date,
	createdAt, lastModifiedAt time.Time,
) *Park {
	p := &Park{
		ID:                     id,
		Name:                   name,
		Description:            description,
		Location:               location,
		GuestLimit:             guestLimit,
		AvailableGuestCapacity: availableGuestCapacity,
		PricePerGuestPerDay:    price,
		CreatedAt:              createdAt,
		LastModifiedAt:         lastModifiedAt,
		availableDates:         make(map[Date]struct{}, len(availableDates)),
	}
	for _, d := range availableDates {
		p.availableDates[d] = struct{}{}
	}
	return p
}

// AvailableDates returns the open dates in ascending order.
func (p *Park) AvailableDates() []Date {
	dates := make([]Date, 0, len(p.availableDates))
	for d := range p.availableDates {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func (p *Park) IsDateAvailable(d Date) bool {
	_, ok := p.availableDates[d]
	return ok
}

func (p *Park) GuestsCurrentlyBooked() int {
	return p.GuestLimit - p.AvailableGuestCapacity
}

func (p *Park) HasAvailabilityFor(guests int) bool {
	return guests > 0 && p.AvailableGuestCapacity >= guests
}

func (p *Park) ReserveGuests(guests int) error {
	if err := ensurePositive(guests, "guests"); err != nil {
		return err
	}
	if !p.HasAvailabilityFor(guests) {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientCapacity, guests, p.AvailableGuestCapacity)
	}
	p.AvailableGuestCapacity -= guests
	p.touch()
	return nil
}

// ReleaseGuests returns capacity to the park. Over-release is capped at the guest limit.
func (p *Park) ReleaseGuests(guests int) error {
	if err := ensurePositive(guests, "guests"); err != nil {
		return err
	}
	p.AvailableGuestCapacity = min(p.AvailableGuestCapacity+guests, p.GuestLimit)
	p.touch()
	return nil
}

// TryReserveDates takes the dayCount earliest open dates. It changes nothing
// when fewer than dayCount dates are open.
func (p *Park) TryReserveDates(dayCount int) ([]Date, bool, error) {
	if err := ensurePositive(dayCount, "dayCount"); err != nil {
		return nil, false, err
	}

	ordered := p.AvailableDates()
	if len(ordered) < dayCount {
		return nil, false, nil
	}

	reserved := ordered[:dayCount]
	for _, d := range reserved {
		delete(p.availableDates, d)
	}
	p.touch()
	return reserved, true, nil
}

func (p *Park) TryReserveSpecificDate(d Date) bool {
	if _, ok := p.availableDates[d]; !ok {
		return false
	}
	delete(p.availableDates, d)
	p.touch()
	return true
}

func (p *Park) ReleaseDate(d Date) {
	if p.availableDates == nil {
		p.availableDates = make(map[Date]struct{})
	}
	p.availableDates[d] = struct{}{}
	p.touch()
}

func (p *Park) ReleaseDates(dates []Date) {
	for _, d := range dates {
		p.ReleaseDate(d)
	}
	p.touch()
}

func (p *Park) UpdateGuestLimit(newLimit int) error {
	if err := ensurePositive(newLimit, "guestLimit"); err != nil {
		return err
	}
	booked := p.GuestsCurrentlyBooked()
	if newLimit < booked {
		return fmt.Errorf("%w: %d guests booked, requested limit %d", ErrGuestLimitBelowBooked, booked, newLimit)
	}
	p.GuestLimit = newLimit
	p.AvailableGuestCapacity = newLimit - booked
	p.touch()
	return nil
}

func (p *Park) UpdatePrice(price Money) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
	}
	p.PricePerGuestPerDay = price
	p.touch()
	return nil
}

func (p *Park) UpdateDetails(name, description, location string) error {
	name, err := requireText(name, "name")
	if err != nil {
		return err
	}
	description, err = requireText(description, "description")
	if err != nil {
		return err
	}
	location, err = requireText(location, "location")
	if err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.Location = location
	p.touch()
	return nil
}

func (p *Park) touch() {
	p.LastModifiedAt = time.Now().UTC()
}

func requireText(value, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrInvalidArgument, field)
	}
	return trimmed, nil
}

func ensurePositive(value int, field string) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidArgument, field)
	}
	return nil
}
