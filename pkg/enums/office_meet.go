package enums

import "fmt"

// MeetStatus tracks an office meeting request.
type MeetStatus string

const (
	MeetStatusPending  MeetStatus = "pending"
	MeetStatusApproved MeetStatus = "approved"
	MeetStatusDeclined MeetStatus = "declined"
	MeetStatusDone     MeetStatus = "done"
)

var validMeetStatuses = []MeetStatus{
	MeetStatusPending,
	MeetStatusApproved,
	MeetStatusDeclined,
	MeetStatusDone,
}

func (m MeetStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MeetStatus.
func (m MeetStatus) IsValid() bool {
	for _, candidate := range validMeetStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the meeting can only be removed from here.
func (m MeetStatus) IsTerminal() bool {
	return m == MeetStatusDeclined || m == MeetStatusDone
}

// ParseMeetStatus converts raw input into a MeetStatus.
func ParseMeetStatus(value string) (MeetStatus, error) {
	for _, candidate := range validMeetStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid meet status %q", value)
}

// MeetMode distinguishes in-office from virtual meetings.
type MeetMode string

const (
	MeetModeOffice  MeetMode = "office"
	MeetModeVirtual MeetMode = "virtual"
)

func (m MeetMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MeetMode.
func (m MeetMode) IsValid() bool {
	return m == MeetModeOffice || m == MeetModeVirtual
}

// Label returns the customer-facing wording for the mode.
func (m MeetMode) Label() string {
	if m == MeetModeVirtual {
		return "virtual"
	}
	return "in-office"
}

// ParseMeetMode converts raw input into a MeetMode.
func ParseMeetMode(value string) (MeetMode, error) {
	switch MeetMode(value) {
	case MeetModeOffice:
		return MeetModeOffice, nil
	case MeetModeVirtual:
		return MeetModeVirtual, nil
	}
	return "", fmt.Errorf("invalid meet mode %q", value)
}
