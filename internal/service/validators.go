package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/corebank/ftreserve/internal/models"
)

const maxReservationCodeLength = 64

// ValidateReservationCode checks that a reservation code is usable as a
// unique identifier
func ValidateReservationCode(code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return fmt.Errorf("reservation code cannot be empty")
	}
	if trimmed != code {
		return fmt.Errorf("reservation code cannot have leading or trailing whitespace")
	}
	if len(code) > maxReservationCodeLength {
		return fmt.Errorf("reservation code too long: max %d characters", maxReservationCodeLength)
	}
	return nil
}

// ValidateAmount checks that a reservation amount is strictly positive
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}
	return nil
}

// ValidateCurrency checks the currency against the supported set
func ValidateCurrency(currency models.Currency) error {
	if !currency.Valid() {
		return fmt.Errorf("unsupported currency: %q (must be one of %v)", currency, models.SupportedCurrencies)
	}
	return nil
}

// ValidateExternalAccountID checks the external account correlation id is present
func ValidateExternalAccountID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("external account id cannot be empty")
	}
	return nil
}
