package enums

import "fmt"

// PropertyStatus marks whether a listing can be booked.
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusUnavailable PropertyStatus = "unavailable"
)

var validPropertyStatuses = []PropertyStatus{
	PropertyStatusAvailable,
	PropertyStatusUnavailable,
}

func (p PropertyStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PropertyStatus.
func (p PropertyStatus) IsValid() bool {
	for _, candidate := range validPropertyStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePropertyStatus converts raw input into a PropertyStatus.
func ParsePropertyStatus(value string) (PropertyStatus, error) {
	for _, candidate := range validPropertyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid property status %q", value)
}
