// Package rules parses game type rule sets and validates number selections
// against them. All functions are pure; the store is never touched here.
package rules

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hhpro-max/lucky-lottery/internal/domain"
)

// DefaultTicketPrice is the hard fallback when neither the rule set nor the
// min_ticket_price setting specifies a price: one currency unit in minor units.
const DefaultTicketPrice int64 = 100

// RuleSet is the closed rule schema for a game type.
type RuleSet struct {
	// Numbers is the required pick count. Zero means unconstrained.
	Numbers int `json:"numbers"`
	// Min and Max bound each picked number inclusively. Both or neither.
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
	// TicketPrice in minor units. Zero means fall back to the
	// min_ticket_price setting, then DefaultTicketPrice.
	TicketPrice int64 `json:"ticket_price,omitempty"`
}

// Parse decodes a stored rule set. Malformed configuration yields the zero
// RuleSet (no constraints) rather than an error: stored rules predate the
// write-time schema check and a bad row must not block ticket sales.
func Parse(raw json.RawMessage) RuleSet {
	var rs RuleSet
	if len(raw) == 0 {
		return RuleSet{}
	}
	if err := json.Unmarshal(raw, &rs); err != nil {
		return RuleSet{}
	}
	return rs
}

// ParseStrict decodes and validates a rule set for admin writes.
func ParseStrict(raw json.RawMessage) (RuleSet, error) {
	var rs RuleSet
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rs); err != nil {
		return RuleSet{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := Validate(rs); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

// Validate checks a rule set against the closed schema.
func Validate(rs RuleSet) error {
	if rs.Numbers < 1 {
		return fmt.Errorf("numbers must be at least 1, got %d", rs.Numbers)
	}
	if (rs.Min == nil) != (rs.Max == nil) {
		return fmt.Errorf("min and max must be set together")
	}
	if rs.Min != nil && *rs.Min > *rs.Max {
		return fmt.Errorf("min %d exceeds max %d", *rs.Min, *rs.Max)
	}
	if rs.TicketPrice < 0 {
		return fmt.Errorf("ticket_price must not be negative, got %d", rs.TicketPrice)
	}
	return nil
}

// ValidateSelection checks a candidate number selection against the rule set.
// The first failing check wins.
func ValidateSelection(rs RuleSet, numbers []int32) *domain.AppError {
	if rs.Numbers > 0 && len(numbers) != rs.Numbers {
		return domain.ErrWrongCount(rs.Numbers)
	}
	if rs.Min != nil && rs.Max != nil {
		for _, n := range numbers {
			if int(n) < *rs.Min || int(n) > *rs.Max {
				return domain.ErrOutOfRange(*rs.Min, *rs.Max)
			}
		}
	}
	return nil
}

// ResolvePrice returns the ticket price in minor units: rule set price first,
// then the min_ticket_price setting, then DefaultTicketPrice.
func ResolvePrice(rs RuleSet, minTicketPrice int64) int64 {
	if rs.TicketPrice > 0 {
		return rs.TicketPrice
	}
	if minTicketPrice > 0 {
		return minTicketPrice
	}
	return DefaultTicketPrice
}
