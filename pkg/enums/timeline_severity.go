package enums

import "fmt"

// TimelineSeverity classifies shipment timeline entries for display.
type TimelineSeverity string

const (
	TimelineSeverityInfo    TimelineSeverity = "INFO"
	TimelineSeveritySuccess TimelineSeverity = "SUCCESS"
	TimelineSeverityWarning TimelineSeverity = "WARNING"
	TimelineSeverityError   TimelineSeverity = "ERROR"
)

var validTimelineSeverities = []TimelineSeverity{
	TimelineSeverityInfo,
	TimelineSeveritySuccess,
	TimelineSeverityWarning,
	TimelineSeverityError,
}

// String implements fmt.Stringer.
func (s TimelineSeverity) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TimelineSeverity.
func (s TimelineSeverity) IsValid() bool {
	for _, candidate := range validTimelineSeverities {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTimelineSeverity converts raw input into a TimelineSeverity.
func ParseTimelineSeverity(value string) (TimelineSeverity, error) {
	for _, candidate := range validTimelineSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid timeline severity %q", value)
}
