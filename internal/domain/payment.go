package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

var streetPattern = regexp.MustCompile(`^[0-9]+\s+.+`)

type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
}

func NewAddress(street, city, state, postalCode string) (Address, error) {
	street = strings.TrimSpace(street)
	if !streetPattern.MatchString(street) {
		return Address{}, fmt.Errorf("%w: street must include a number and street name", ErrInvalidAddress)
	}
	fields := map[string]*string{"city": &city, "state": &state, "postalCode": &postalCode}
	for name, v := range fields {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			return Address{}, fmt.Errorf("%w: %s cannot be empty", ErrInvalidAddress, name)
		}
	}
	return Address{Street: street, City: city, State: state, PostalCode: postalCode}, nil
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.PostalCode)
}

type PaymentRequest struct {
	CartID         uuid.UUID
	CardholderName string
	CardNumber     string
	Expiration     string
	CVC            string
	BillingAddress Address
	Amount         Money
}

type PaymentResult struct {
	Success bool
	Message string
}

// ValidateCardNumber keeps the digits of number and checks length and the Luhn checksum.
func ValidateCardNumber(number string) error {
	digits := DigitsOnly(number)
	if len(digits) < 13 || len(digits) > 19 {
		return fmt.Errorf("%w: card number must be between 13 and 19 digits", ErrInvalidCardNumber)
	}
	if !PassesLuhn(digits) {
		return ErrInvalidCardNumber
	}
	return nil
}

// ValidateExpiration parses MM/YY and rejects cards whose month ended before now.
// A card stays valid until 23:59:59 UTC on the last day of its month.
func ValidateExpiration(expiration string, now time.Time) error {
	exp, err := time.Parse("01/06", strings.TrimSpace(expiration))
	if err != nil {
		return ErrInvalidExpiration
	}
	lastDay := time.Date(exp.Year(), exp.Month()+1, 0, 23, 59, 59, 0, time.UTC)
	if lastDay.Before(now.UTC()) {
		return ErrCardExpired
	}
	return nil
}

func ValidateCVC(cvc string) error {
	if len(cvc) != 3 && len(cvc) != 4 {
		return ErrInvalidCVC
	}
	for i := 0; i < len(cvc); i++ {
		if cvc[i] < '0' || cvc[i] > '9' {
			return ErrInvalidCVC
		}
	}
	return nil
}

// PassesLuhn runs the mod-10 check over an all-digit string.
func PassesLuhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
