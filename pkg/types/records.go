package types

import (
	"time"

	"github.com/casalink-ph/casalink-backend/pkg/enums"
)

// User is an account record in the allUsers collection. PasswordHash is an
// Argon2id string; it stays under the legacy "password" field name so old
// exports remain readable, but the value is never clear text.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password"`
	Role         enums.Role `json:"role"`
	FullName     string     `json:"fullName"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	PhotoURL     string     `json:"photoUrl"`
}

// Principal is the password-free snapshot held in the currentUser cell.
type Principal struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
	FullName string     `json:"fullName"`
	Phone    string     `json:"phone"`
	Email    string     `json:"email"`
	PhotoURL string     `json:"photoUrl"`
}

// Principal strips the credential fields from a user record.
func (u User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		FullName: u.FullName,
		Phone:    u.Phone,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
	}
}

// Property is a listing owned by exactly one agent.
type Property struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Location    string               `json:"location"`
	Price       float64              `json:"price"`
	Bedrooms    int                  `json:"bedrooms"`
	Bathrooms   int                  `json:"bathrooms"`
	AreaSqft    int                  `json:"areaSqft"`
	Description string               `json:"description"`
	ImageURL    string               `json:"imageUrl"`
	Status      enums.PropertyStatus `json:"status"`
	Agent       string               `json:"agent"`
}

// Appointment is a property viewing request. The property fields are a
// denormalized snapshot taken at booking time so the record stays
// meaningful if the listing or a party is deleted later.
type Appointment struct {
	ID            string                  `json:"id"`
	PropertyID    string                  `json:"propertyId"`
	PropertyImage string                  `json:"propertyImage,omitempty"`
	PropertyTitle string                  `json:"propertyTitle"`
	Location      string                  `json:"location"`
	Agent         string                  `json:"agent"`
	Customer      string                  `json:"customer"`
	Date          string                  `json:"date"`
	Time          string                  `json:"time"`
	Status        enums.AppointmentStatus `json:"status"`
	RescheduledAt *time.Time              `json:"rescheduledAt,omitempty"`
	RescheduledBy string                  `json:"rescheduledBy,omitempty"`
}

// OfficeMeet is a walk-in or virtual meeting request.
type OfficeMeet struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	FullName      string           `json:"fullName"`
	Email         string           `json:"email"`
	Date          string           `json:"date"`
	Time          string           `json:"time"`
	Reason        string           `json:"reason"`
	Mode          enums.MeetMode   `json:"mode"`
	Customer      string           `json:"customer"`
	RequestedBy   string           `json:"requestedBy"`
	RequestedRole enums.Role       `json:"requestedRole"`
	Status        enums.MeetStatus `json:"status"`
	AssignedAgent string           `json:"assignedAgent,omitempty"`
}

// Trip is an agent-organized tour over one or more of the agent's listings.
// Customer is the primary requester and may become empty if they leave;
// Attendees always contains every joined customer.
type Trip struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Location    string           `json:"location"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	Status      enums.TripStatus `json:"status"`
	Customer    string           `json:"customer"`
	PropertyIDs []string         `json:"propertyIds"`
	Notes       string           `json:"notes,omitempty"`
	Attendees   []string         `json:"attendees"`
	Agent       string           `json:"agent"`
}

// HasAttendee reports whether username is in the attendee set.
func (t Trip) HasAttendee(username string) bool {
	for _, attendee := range t.Attendees {
		if attendee == username {
			return true
		}
	}
	return false
}

// Review rates a completed appointment, at most one per appointment.
type Review struct {
	ID            string     `json:"id"`
	AppointmentID string     `json:"appointmentId"`
	PropertyID    string     `json:"propertyId"`
	PropertyImage string     `json:"propertyImage,omitempty"`
	PropertyTitle string     `json:"propertyTitle"`
	Location      string     `json:"location"`
	Agent         string     `json:"agent"`
	Customer      string     `json:"customer"`
	Rating        int        `json:"rating"`
	Comment       string     `json:"comment"`
	CreatedAt     time.Time  `json:"createdAt"`
	AddressedAt   *time.Time `json:"addressedAt,omitempty"`
	AddressedBy   string     `json:"addressedBy,omitempty"`
	PinnedByAgent bool       `json:"pinnedByAgent,omitempty"`
	PinnedByAdmin bool       `json:"pinnedByAdmin,omitempty"`
}

// Notification is an in-app message addressed to one username.
type Notification struct {
	ID            string                 `json:"id"`
	To            string                 `json:"to"`
	Type          enums.NotificationType `json:"type"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	AppointmentID string                 `json:"appointmentId,omitempty"`
	Meta          map[string]string      `json:"meta,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	ReadAt        *time.Time             `json:"readAt,omitempty"`
}
