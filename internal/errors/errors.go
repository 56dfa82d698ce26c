package errors

import (
	stderrors "errors"
	"fmt"

	"parkbooking/internal/domain"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if stderrors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// FromDomain translates domain sentinel errors into the application error types
// controllers know how to render. Unknown errors become InternalError.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case stderrors.Is(err, domain.ErrInvalidArgument),
		stderrors.Is(err, domain.ErrCurrencyMismatch):
		return NewValidationError(err.Error())
	case stderrors.Is(err, domain.ErrInvalidCardNumber):
		return NewValidationError(err.Error(), ValidationDetail{Field: "cardNumber", Message: err.Error()})
	case stderrors.Is(err, domain.ErrInvalidExpiration),
		stderrors.Is(err, domain.ErrCardExpired):
		return NewValidationError(err.Error(), ValidationDetail{Field: "expirationMonthYear", Message: err.Error()})
	case stderrors.Is(err, domain.ErrInvalidCVC):
		return NewValidationError(err.Error(), ValidationDetail{Field: "cvc", Message: err.Error()})
	case stderrors.Is(err, domain.ErrInvalidAddress):
		return NewValidationError(err.Error(), ValidationDetail{Field: "billingAddress", Message: err.Error()})
	case stderrors.Is(err, domain.ErrInsufficientCapacity),
		stderrors.Is(err, domain.ErrGuestLimitBelowBooked):
		return NewConflictError(err.Error())
	}

	if _, ok := IsValidationError(err); ok {
		return err
	}
	if _, ok := IsNotFoundError(err); ok {
		return err
	}
	if _, ok := IsConflictError(err); ok {
		return err
	}
	return NewInternalError("unexpected error", err)
}
