package enums

import "fmt"

// NotificationType categorizes in-app notification payloads.
type NotificationType string

const (
	NotificationTypeAppointment NotificationType = "appointment"
	NotificationTypeOfficeMeet  NotificationType = "office-meet"
	NotificationTypeGeneral     NotificationType = "general"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeAppointment,
	NotificationTypeOfficeMeet,
	NotificationTypeGeneral,
}

func (n NotificationType) String() string {
	return string(n)
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
