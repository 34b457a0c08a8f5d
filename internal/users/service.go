// Package users owns account administration: listing, agent provisioning,
// profile edits and the cascade that scrubs a deleted account out of every
// collection that references it.
package users

import (
	"context"
	"strings"

	"github.com/casalink-ph/casalink-backend/internal/session"
	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/identifier"
	"github.com/casalink-ph/casalink-backend/pkg/sanitize"
	"github.com/casalink-ph/casalink-backend/pkg/security"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

const idPrefix = "USR"

type Service struct {
	store     store.Store
	cell      *session.Cell
	passwords config.PasswordConfig
	newID     func(string) string
}

func NewService(s store.Store, cell *session.Cell, passwords config.PasswordConfig) (*Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users store required")
	}
	return &Service{
		store:     s,
		cell:      cell,
		passwords: passwords,
		newID:     identifier.New,
	}, nil
}

// List returns every account, credentials stripped.
func (s *Service) List(ctx context.Context, actor types.Actor) ([]types.Principal, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can list accounts")
	}
	users := store.ReadList[types.User](ctx, s.store, store.KeyUsers)
	principals := make([]types.Principal, 0, len(users))
	for _, user := range users {
		principals = append(principals, user.Principal())
	}
	return principals, nil
}

// Get returns the password-free record for one username.
func (s *Service) Get(ctx context.Context, username string) (types.Principal, error) {
	user, _, ok := s.find(ctx, username)
	if !ok {
		return types.Principal{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user.Principal(), nil
}

// CreateInput carries an admin-provisioned account.
type CreateInput struct {
	Username string
	Password string
	Role     enums.Role
	FullName string
	Phone    string
	Email    string
	PhotoURL string
}

// Create provisions an account with an explicit role. Admin only; this is
// the only path that mints agent or admin accounts.
func (s *Service) Create(ctx context.Context, actor types.Actor, in CreateInput) (*types.User, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can create accounts")
	}

	username := sanitize.Username(in.Username)
	if !sanitize.ValidUsername(username) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username must be 3-32 chars of letters, numbers, '.', '_' or '-'")
	}
	if !in.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be admin, agent or customer")
	}
	if !sanitize.StrongEnoughPassword(in.Password, 6) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}
	fullName := sanitize.Text(in.FullName, 80)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	email := sanitize.Email(in.Email)
	if email != "" && !sanitize.ValidEmail(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email format is invalid")
	}
	phone := sanitize.Phone(in.Phone)
	if phone != "" && !sanitize.ValidPhone(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone format is invalid")
	}

	users := store.ReadList[types.User](ctx, s.store, store.KeyUsers)
	for _, user := range users {
		if sanitize.Username(user.Username) == username {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
		}
	}

	hash, err := security.HashPassword(in.Password, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	created := types.User{
		ID:           s.newID(idPrefix),
		Username:     username,
		PasswordHash: hash,
		Role:         in.Role,
		FullName:     fullName,
		Phone:        phone,
		Email:        email,
		PhotoURL:     sanitize.Text(in.PhotoURL, 400),
	}
	if err := store.WriteList(ctx, s.store, store.KeyUsers, append(users, created)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user")
	}
	return &created, nil
}

// UpdateProfileInput carries the self-editable profile fields. Nil pointers
// leave the field as is.
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
	Email    *string
	PhotoURL *string
	Password *string
}

// UpdateProfile edits the actor's own record and refreshes the session
// cell when it points at the same account.
func (s *Service) UpdateProfile(ctx context.Context, actor types.Actor, in UpdateProfileInput) (types.Principal, error) {
	users := store.ReadList[types.User](ctx, s.store, store.KeyUsers)
	index := -1
	for i, user := range users {
		if sanitize.Username(user.Username) == sanitize.Username(actor.Username) {
			index = i
			break
		}
	}
	if index < 0 {
		return types.Principal{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	target := &users[index]
	if in.FullName != nil {
		fullName := sanitize.Text(*in.FullName, 80)
		if fullName == "" {
			return types.Principal{}, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		target.FullName = fullName
	}
	if in.Email != nil {
		email := sanitize.Email(*in.Email)
		if email != "" && !sanitize.ValidEmail(email) {
			return types.Principal{}, pkgerrors.New(pkgerrors.CodeValidation, "email format is invalid")
		}
		target.Email = email
	}
	if in.Phone != nil {
		phone := sanitize.Phone(*in.Phone)
		if phone != "" && !sanitize.ValidPhone(phone) {
			return types.Principal{}, pkgerrors.New(pkgerrors.CodeValidation, "phone format is invalid")
		}
		target.Phone = phone
	}
	if in.PhotoURL != nil {
		target.PhotoURL = sanitize.Text(*in.PhotoURL, 400)
	}
	if in.Password != nil {
		if !sanitize.StrongEnoughPassword(*in.Password, 6) {
			return types.Principal{}, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
		}
		hash, err := security.HashPassword(*in.Password, s.passwords)
		if err != nil {
			return types.Principal{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		target.PasswordHash = hash
	}

	if err := store.WriteList(ctx, s.store, store.KeyUsers, users); err != nil {
		return types.Principal{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user")
	}

	principal := target.Principal()
	if s.cell != nil {
		if current, ok := s.cell.Current(ctx); ok && current.Username == principal.Username {
			if err := s.cell.Set(ctx, principal); err != nil {
				return types.Principal{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh session")
			}
		}
	}
	return principal, nil
}

// Delete removes an account and everything that belongs to it: the agent's
// listings and trips, every appointment or review the account is party to,
// every office meet it requested, its notifications, and its membership in
// other trips' attendee lists. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, actor types.Actor, username string) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins can delete accounts")
	}
	target, index, ok := s.find(ctx, username)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if sanitize.Username(actor.Username) == sanitize.Username(target.Username) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "admins cannot delete their own account")
	}
	name := target.Username

	users := store.ReadList[types.User](ctx, s.store, store.KeyUsers)
	users = append(users[:index], users[index+1:]...)
	if err := store.WriteList(ctx, s.store, store.KeyUsers, users); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist users")
	}

	properties := store.ReadList[types.Property](ctx, s.store, store.KeyProperties)
	kept := properties[:0]
	for _, property := range properties {
		if property.Agent != name {
			kept = append(kept, property)
		}
	}
	if err := store.WriteList(ctx, s.store, store.KeyProperties, kept); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist properties")
	}

	appointments := store.ReadList[types.Appointment](ctx, s.store, store.KeyAppointments)
	keptAppointments := appointments[:0]
	for _, appointment := range appointments {
		if appointment.Agent != name && appointment.Customer != name {
			keptAppointments = append(keptAppointments, appointment)
		}
	}
	if err := store.WriteList(ctx, s.store, store.KeyAppointments, keptAppointments); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist appointments")
	}

	meets := store.ReadList[types.OfficeMeet](ctx, s.store, store.KeyOfficeMeets)
	keptMeets := meets[:0]
	for _, meet := range meets {
		if meet.Customer != name && meet.RequestedBy != name {
			keptMeets = append(keptMeets, meet)
		}
	}
	if err := store.WriteList(ctx, s.store, store.KeyOfficeMeets, keptMeets); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist office meets")
	}

	trips := store.ReadList[types.Trip](ctx, s.store, store.KeyTrips)
	keptTrips := trips[:0]
	for _, trip := range trips {
		if trip.Agent == name {
			continue
		}
		// a deleted customer is scrubbed from trips they joined
		if trip.Customer == name {
			trip.Customer = ""
		}
		attendees := trip.Attendees[:0]
		for _, attendee := range trip.Attendees {
			if attendee != name {
				attendees = append(attendees, attendee)
			}
		}
		trip.Attendees = attendees
		keptTrips = append(keptTrips, trip)
	}
	if err := store.WriteList(ctx, s.store, store.KeyTrips, keptTrips); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist trips")
	}

	reviews := store.ReadList[types.Review](ctx, s.store, store.KeyReviews)
	keptReviews := reviews[:0]
	for _, review := range reviews {
		if review.Agent != name && review.Customer != name {
			keptReviews = append(keptReviews, review)
		}
	}
	if err := store.WriteList(ctx, s.store, store.KeyReviews, keptReviews); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist reviews")
	}

	notifications := store.ReadList[types.Notification](ctx, s.store, store.KeyNotifications)
	keptNotifications := notifications[:0]
	for _, notification := range notifications {
		if notification.To != name {
			keptNotifications = append(keptNotifications, notification)
		}
	}
	if err := store.WriteList(ctx, s.store, store.KeyNotifications, keptNotifications); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist notifications")
	}

	if s.cell != nil {
		if current, ok := s.cell.Current(ctx); ok && current.Username == name {
			if err := s.cell.Clear(ctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
			}
		}
	}
	return nil
}

func (s *Service) find(ctx context.Context, username string) (types.User, int, bool) {
	uname := sanitize.Username(username)
	for i, user := range store.ReadList[types.User](ctx, s.store, store.KeyUsers) {
		if sanitize.Username(user.Username) == uname {
			return user, i, true
		}
	}
	return types.User{}, -1, false
}

// AgentNames returns the usernames of every agent account, for booking
// surfaces that need the roster.
func (s *Service) AgentNames(ctx context.Context) []string {
	var names []string
	for _, user := range store.ReadList[types.User](ctx, s.store, store.KeyUsers) {
		if user.Role == enums.RoleAgent {
			if name := strings.TrimSpace(user.Username); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
