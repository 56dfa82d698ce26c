package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCardNumber(t *testing.T) {
	assert.NoError(t, ValidateCardNumber("4532015112830366"))
	assert.NoError(t, ValidateCardNumber("4532 0151 1283 0366"))
	assert.NoError(t, ValidateCardNumber("4532-0151-1283-0366"))

	assert.ErrorIs(t, ValidateCardNumber("4532015112830367"), ErrInvalidCardNumber)
	assert.ErrorIs(t, ValidateCardNumber("453201511"), ErrInvalidCardNumber)
	assert.ErrorIs(t, ValidateCardNumber("45320151128303664532"), ErrInvalidCardNumber)
	assert.ErrorIs(t, ValidateCardNumber(""), ErrInvalidCardNumber)
}

func TestPassesLuhn(t *testing.T) {
	assert.True(t, PassesLuhn("79927398713"))
	assert.False(t, PassesLuhn("79927398710"))
}

func TestValidateExpiration(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateExpiration("10/26", now))
	assert.NoError(t, ValidateExpiration("01/30", now))
	assert.ErrorIs(t, ValidateExpiration("09/26", now), ErrCardExpired)
	assert.ErrorIs(t, ValidateExpiration("13/26", now), ErrInvalidExpiration)
	assert.ErrorIs(t, ValidateExpiration("1026", now), ErrInvalidExpiration)
	assert.ErrorIs(t, ValidateExpiration("", now), ErrInvalidExpiration)
}

func TestValidateExpiration_ValidUntilEndOfLastDay(t *testing.T) {
	endOfMonth := time.Date(2026, time.February, 28, 23, 59, 58, 0, time.UTC)
	assert.NoError(t, ValidateExpiration("02/26", endOfMonth))

	nextMonth := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, ValidateExpiration("02/26", nextMonth), ErrCardExpired)
}

func TestValidateCVC(t *testing.T) {
	assert.NoError(t, ValidateCVC("123"))
	assert.NoError(t, ValidateCVC("1234"))
	assert.ErrorIs(t, ValidateCVC("12"), ErrInvalidCVC)
	assert.ErrorIs(t, ValidateCVC("12345"), ErrInvalidCVC)
	assert.ErrorIs(t, ValidateCVC("12a"), ErrInvalidCVC)
	assert.ErrorIs(t, ValidateCVC("١٢٣"), ErrInvalidCVC)
}

func TestNewAddress(t *testing.T) {
	a, err := NewAddress(" 301 Hill St ", "Moab", "UT", "84532")
	require.NoError(t, err)
	assert.Equal(t, "301 Hill St, Moab, UT 84532", a.String())

	_, err = NewAddress("Hill St", "Moab", "UT", "84532")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = NewAddress("301 Hill St", "", "UT", "84532")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "4111", DigitsOnly("4 1-1x1"))
}
