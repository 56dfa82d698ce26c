package domain

import "errors"

var (
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInsufficientCapacity  = errors.New("not enough capacity available for the requested number of guests")
	ErrGuestLimitBelowBooked = errors.New("cannot reduce guest limit below current active bookings")
	ErrCurrencyMismatch      = errors.New("cannot operate on money values with different currencies")
)

var (
	ErrInvalidCardNumber = errors.New("card number failed validation")
	ErrInvalidExpiration = errors.New("expiration must be in MM/YY format")
	ErrCardExpired       = errors.New("card has expired")
	ErrInvalidCVC        = errors.New("cvc must be 3 or 4 digits")
	ErrInvalidAddress    = errors.New("invalid billing address")
)
