package bootstrap

import (
	"context"
	"testing"

	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	"github.com/casalink-ph/casalink-backend/pkg/security"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

func TestRunSeedsFreshStore(t *testing.T) {
	t.Parallel()

	s := store.NewMemory(nil)
	ctx := context.Background()
	if err := Run(ctx, s, config.PasswordConfig{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	users := store.ReadList[types.User](ctx, s, store.KeyUsers)
	if len(users) != 3 {
		t.Fatalf("expected 3 seed users, got %d", len(users))
	}
	byName := make(map[string]types.User, len(users))
	for _, user := range users {
		byName[user.Username] = user
	}
	if byName["admin"].Role != enums.RoleAdmin || byName["agent"].Role != enums.RoleAgent || byName["customer"].Role != enums.RoleCustomer {
		t.Fatalf("unexpected seed roles: %+v", byName)
	}

	for username, password := range map[string]string{
		"admin":    "admin123",
		"agent":    "agent123",
		"customer": "customer123",
	} {
		user := byName[username]
		if user.PasswordHash == password {
			t.Fatalf("%s password stored in cleartext", username)
		}
		ok, err := security.VerifyPassword(password, user.PasswordHash)
		if err != nil || !ok {
			t.Fatalf("%s seed password does not verify: ok=%v err=%v", username, ok, err)
		}
	}

	listings := store.ReadList[types.Property](ctx, s, store.KeyProperties)
	if len(listings) != 1 {
		t.Fatalf("expected 1 seed listing, got %d", len(listings))
	}
	if listings[0].ID != "PROP-00000101" || listings[0].Price != 25000 || listings[0].Agent != "agent" {
		t.Fatalf("unexpected seed listing %+v", listings[0])
	}
	if listings[0].Status != enums.PropertyStatusAvailable {
		t.Fatalf("expected available listing, got %s", listings[0].Status)
	}
}

func TestRunInitializesEmptyCollections(t *testing.T) {
	t.Parallel()

	s := store.NewMemory(nil)
	ctx := context.Background()
	if err := Run(ctx, s, config.PasswordConfig{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{
		store.KeyAppointments,
		store.KeyOfficeMeets,
		store.KeyTrips,
		store.KeyReviews,
		store.KeyNotifications,
	} {
		raw, err := s.Read(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error reading %s: %v", key, err)
		}
		if string(raw) != "[]" {
			t.Fatalf("expected %s seeded as empty array, got %q", key, raw)
		}
	}
}

func TestRunLeavesExistingDataAlone(t *testing.T) {
	t.Parallel()

	s := store.NewMemory(nil)
	ctx := context.Background()

	if err := store.WriteList(ctx, s, store.KeyUsers, []types.User{
		{ID: "USR-1", Username: "existing", Role: enums.RoleAdmin},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.WriteList(ctx, s, store.KeyTrips, []types.Trip{
		{ID: "TRIP-1", Status: enums.TripStatusPlanned},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Run(ctx, s, config.PasswordConfig{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	users := store.ReadList[types.User](ctx, s, store.KeyUsers)
	if len(users) != 1 || users[0].Username != "existing" {
		t.Fatalf("populated users collection must not be reseeded, got %+v", users)
	}
	trips := store.ReadList[types.Trip](ctx, s, store.KeyTrips)
	if len(trips) != 1 || trips[0].ID != "TRIP-1" {
		t.Fatalf("populated trips collection must not be reseeded, got %+v", trips)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	t.Parallel()

	s := store.NewMemory(nil)
	ctx := context.Background()

	if err := Run(ctx, s, config.PasswordConfig{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstHash := store.ReadList[types.User](ctx, s, store.KeyUsers)[0].PasswordHash

	if err := Run(ctx, s, config.PasswordConfig{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users := store.ReadList[types.User](ctx, s, store.KeyUsers)
	if len(users) != 3 {
		t.Fatalf("second run must not duplicate users, got %d", len(users))
	}
	if users[0].PasswordHash != firstHash {
		t.Fatalf("second run must not rehash existing users")
	}
}
