package enums

import "fmt"

// TripStatus tracks a property tour from planning to completion.
type TripStatus string

const (
	TripStatusPlanned    TripStatus = "planned"
	TripStatusInProgress TripStatus = "in-progress"
	TripStatusDone       TripStatus = "done"
	TripStatusCancelled  TripStatus = "cancelled"
)

var validTripStatuses = []TripStatus{
	TripStatusPlanned,
	TripStatusInProgress,
	TripStatusDone,
	TripStatusCancelled,
}

func (t TripStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TripStatus.
func (t TripStatus) IsValid() bool {
	for _, candidate := range validTripStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the trip can only be removed from here.
func (t TripStatus) IsTerminal() bool {
	return t == TripStatusDone || t == TripStatusCancelled
}

// ParseTripStatus converts raw input into a TripStatus.
func ParseTripStatus(value string) (TripStatus, error) {
	for _, candidate := range validTripStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trip status %q", value)
}
