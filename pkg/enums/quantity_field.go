package enums

import "fmt"

// QuantityField names one side of a cart line's split quantity: full cases
// ("thùng") or loose base units ("lẻ").
type QuantityField string

const (
	QuantityFieldCase QuantityField = "case"
	QuantityFieldEach QuantityField = "each"
)

var validQuantityFields = []QuantityField{
	QuantityFieldCase,
	QuantityFieldEach,
}

// String implements fmt.Stringer.
func (f QuantityField) String() string {
	return string(f)
}

// IsValid reports whether the value is a known QuantityField.
func (f QuantityField) IsValid() bool {
	for _, candidate := range validQuantityFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseQuantityField converts raw input into a QuantityField.
func ParseQuantityField(value string) (QuantityField, error) {
	for _, candidate := range validQuantityFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quantity field %q", value)
}
