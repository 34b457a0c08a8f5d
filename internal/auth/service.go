// Package auth owns sign-in, self-registration and password reset over the
// allUsers collection and the currentUser cell.
package auth

import (
	"context"

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

const (
	idPrefix    = "USR"
	minPassword = 6
)

type Service struct {
	store     store.Store
	cell      *session.Cell
	passwords config.PasswordConfig
	newID     func(string) string
}

func NewService(s store.Store, cell *session.Cell, passwords config.PasswordConfig) (*Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth store required")
	}
	if cell == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session cell required")
	}
	return &Service{
		store:     s,
		cell:      cell,
		passwords: passwords,
		newID:     identifier.New,
	}, nil
}

// Login verifies credentials against the allUsers collection and fills the
// currentUser cell. Username matching is case-insensitive.
func (s *Service) Login(ctx context.Context, username, password string) (types.Principal, error) {
	uname := sanitize.Username(username)
	if uname == "" || password == "" {
		return types.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
	}

	for _, user := range store.ReadList[types.User](ctx, s.store, store.KeyUsers) {
		if sanitize.Username(user.Username) != uname {
			continue
		}
		ok, err := security.VerifyPassword(password, user.PasswordHash)
		if err != nil || !ok {
			break
		}
		principal := user.Principal()
		if err := s.cell.Set(ctx, principal); err != nil {
			return types.Principal{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
		}
		return principal, nil
	}
	return types.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
}

// Logout clears the currentUser cell.
func (s *Service) Logout(ctx context.Context) error {
	return s.cell.Clear(ctx)
}

// RegisterInput carries a self-registration request. Self-registered
// accounts are always customers.
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Phone    string
	Email    string
	PhotoURL string
}

// Register creates a customer account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	username := sanitize.Username(in.Username)
	fullName := sanitize.Text(in.FullName, 80)
	phone := sanitize.Phone(in.Phone)
	email := sanitize.Email(in.Email)
	photoURL := sanitize.Text(in.PhotoURL, 400)

	if !sanitize.ValidUsername(username) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username must be 3-32 chars of letters, numbers, '.', '_' or '-'")
	}
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if !sanitize.StrongEnoughPassword(in.Password, minPassword) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}
	if !sanitize.ValidEmail(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email format is invalid")
	}
	if !sanitize.ValidPhone(phone) {
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
		Role:         enums.RoleCustomer,
		FullName:     fullName,
		Phone:        phone,
		Email:        email,
		PhotoURL:     photoURL,
	}
	if err := store.WriteList(ctx, s.store, store.KeyUsers, append(users, created)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user")
	}
	return &created, nil
}

// ResetPassword replaces the password of the account matching both the
// username and the email on file.
func (s *Service) ResetPassword(ctx context.Context, username, email, newPassword string) error {
	uname := sanitize.Username(username)
	mail := sanitize.Email(email)
	if uname == "" || mail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username and email are required")
	}
	if !sanitize.StrongEnoughPassword(newPassword, minPassword) {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}

	users := store.ReadList[types.User](ctx, s.store, store.KeyUsers)
	index := -1
	for i, user := range users {
		if sanitize.Username(user.Username) == uname && sanitize.Email(user.Email) == mail {
			index = i
			break
		}
	}
	if index < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no account matches that username and email")
	}

	hash, err := security.HashPassword(newPassword, s.passwords)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	users[index].PasswordHash = hash
	if err := store.WriteList(ctx, s.store, store.KeyUsers, users); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user")
	}
	return nil
}
