package enums

import "fmt"

// AppointmentStatus tracks a viewing appointment through its lifecycle.
type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusApproved    AppointmentStatus = "approved"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusDone        AppointmentStatus = "done"
	AppointmentStatusDeclined    AppointmentStatus = "declined"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
)

var validAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusApproved,
	AppointmentStatusRescheduled,
	AppointmentStatusDone,
	AppointmentStatusDeclined,
	AppointmentStatusCancelled,
}

func (a AppointmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AppointmentStatus.
func (a AppointmentStatus) IsValid() bool {
	for _, candidate := range validAppointmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is defined from this
// status. Terminal records can only be removed.
func (a AppointmentStatus) IsTerminal() bool {
	switch a {
	case AppointmentStatusDone, AppointmentStatusDeclined, AppointmentStatusCancelled:
		return true
	}
	return false
}

// ParseAppointmentStatus converts raw input into an AppointmentStatus.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	for _, candidate := range validAppointmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", value)
}
