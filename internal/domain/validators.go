package domain

import (
	"fmt"
	"regexp"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks if a currency code is ISO 4217.
func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("invalid currency code: %s", currency)
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive (in minor units).
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}

// ValidateNumbers checks that a number selection is present and non-negative.
// Count and range constraints come from the game type's rule set.
func ValidateNumbers(numbers []int32) error {
	if len(numbers) == 0 {
		return fmt.Errorf("numbers are required")
	}
	for _, n := range numbers {
		if n < 0 {
			return fmt.Errorf("numbers must be non-negative, got %d", n)
		}
	}
	return nil
}
