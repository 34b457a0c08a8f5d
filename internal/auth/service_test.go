package auth

import (
	"context"
	"testing"

	"github.com/casalink-ph/casalink-backend/internal/session"
	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
)

func newTestService(t *testing.T) (*Service, store.Store, *session.Cell) {
	t.Helper()
	s := store.NewMemory(nil)
	cell := session.NewCell(s)
	svc, err := NewService(s, cell, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, s, cell
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, _, cell := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{
		Username: "Maria.Cruz",
		Password: "secret1",
		FullName: "Maria Cruz",
		Phone:    "09171234567",
		Email:    "maria@email.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Username != "maria.cruz" {
		t.Fatalf("username should be folded, got %q", created.Username)
	}
	if created.Role != enums.RoleCustomer {
		t.Fatalf("self-registration must create customers, got %s", created.Role)
	}
	if created.PasswordHash == "secret1" {
		t.Fatal("password must not be stored in clear text")
	}

	// login is case-insensitive on the username
	principal, err := svc.Login(ctx, "MARIA.CRUZ", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.Username != "maria.cruz" {
		t.Fatalf("unexpected principal %+v", principal)
	}

	current, ok := cell.Current(ctx)
	if !ok || current.Username != "maria.cruz" {
		t.Fatalf("login must fill the session cell, got %+v %v", current, ok)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	svc, _, cell := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		Username: "maria",
		Password: "secret1",
		FullName: "Maria Cruz",
		Phone:    "09171234567",
		Email:    "maria@email.com",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Login(ctx, "maria", "wrong")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error code: %v", err)
	}
	if _, ok := cell.Current(ctx); ok {
		t.Fatal("failed login must not fill the session cell")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.Login(context.Background(), "ghost", "whatever")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	in := RegisterInput{
		Username: "maria",
		Password: "secret1",
		FullName: "Maria Cruz",
		Phone:    "09171234567",
		Email:    "maria@email.com",
	}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in.Username = " MARIA "
	_, err := svc.Register(ctx, in)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate username, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "short username", in: RegisterInput{Username: "ab", Password: "secret1", FullName: "A B", Phone: "09171234567", Email: "a@email.com"}},
		{name: "short password", in: RegisterInput{Username: "maria", Password: "12345", FullName: "Maria", Phone: "09171234567", Email: "a@email.com"}},
		{name: "bad email", in: RegisterInput{Username: "maria", Password: "secret1", FullName: "Maria", Phone: "09171234567", Email: "not-an-email"}},
		{name: "bad phone", in: RegisterInput{Username: "maria", Password: "secret1", FullName: "Maria", Phone: "abc", Email: "a@email.com"}},
		{name: "missing full name", in: RegisterInput{Username: "maria", Password: "secret1", Phone: "09171234567", Email: "a@email.com"}},
	}
	for _, tt := range tests {
		_, err := svc.Register(ctx, tt.in)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tt.name, err)
		}
	}
}

func TestLogoutClearsSession(t *testing.T) {
	t.Parallel()

	svc, _, cell := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		Username: "maria", Password: "secret1", FullName: "Maria", Phone: "09171234567", Email: "a@email.com",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Login(ctx, "maria", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cell.Current(ctx); ok {
		t.Fatal("logout must clear the session cell")
	}
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		Username: "maria", Password: "secret1", FullName: "Maria", Phone: "09171234567", Email: "maria@email.com",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// email must match the one on file
	err := svc.ResetPassword(ctx, "maria", "other@email.com", "newpass1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for mismatched email, got %v", err)
	}

	if err := svc.ResetPassword(ctx, "maria", "maria@email.com", "newpass1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Login(ctx, "maria", "secret1"); err == nil {
		t.Fatal("old password must stop working")
	}
	if _, err := svc.Login(ctx, "maria", "newpass1"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}
