// Package validation holds the business rules applied to products and stores
// before they are created or updated. The rules are pure functions.
package validation

import (
	"fmt"
	"unicode/utf8"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
)

// Product categories.
const (
	CategoryPerishable    = "Perishable"
	CategoryNonPerishable = "NonPerishable"
)

// CityLength is the exact number of characters a store city must have.
const CityLength = 3

// FieldError describes a rejected field. It unwraps to ErrBadRequest.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return catalogerrors.ErrBadRequest
}

// Product accepts a product only if its category is Perishable or NonPerishable.
func Product(category string) error {
	if category != CategoryPerishable && category != CategoryNonPerishable {
		return &FieldError{
			Field:  "category",
			Value:  category,
			Reason: fmt.Sprintf("must be %s or %s", CategoryPerishable, CategoryNonPerishable),
		}
	}
	return nil
}

// Store accepts a store only if its city is exactly CityLength characters long.
func Store(city string) error {
	if utf8.RuneCountInString(city) != CityLength {
		return &FieldError{
			Field:  "city",
			Value:  city,
			Reason: fmt.Sprintf("must be exactly %d characters", CityLength),
		}
	}
	return nil
}
