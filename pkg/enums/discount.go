package enums

import "fmt"

// DiscountType determines how a discount value is applied to a cart total.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFixed,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

// DiscountStatus is the administrative state of a discount code.
type DiscountStatus string

const (
	DiscountStatusActive   DiscountStatus = "ACTIVE"
	DiscountStatusInactive DiscountStatus = "INACTIVE"
	DiscountStatusExpired  DiscountStatus = "EXPIRED"
)

var validDiscountStatuses = []DiscountStatus{
	DiscountStatusActive,
	DiscountStatusInactive,
	DiscountStatusExpired,
}

// String implements fmt.Stringer.
func (d DiscountStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountStatus.
func (d DiscountStatus) IsValid() bool {
	for _, candidate := range validDiscountStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountStatus converts raw input into a DiscountStatus.
func ParseDiscountStatus(value string) (DiscountStatus, error) {
	for _, candidate := range validDiscountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount status %q", value)
}
