// Package bootstrap seeds a fresh store with the demo tenant: one admin,
// one agent, one customer and a single sample listing. Seeding is
// idempotent; a non-empty collection is never overwritten.
package bootstrap

import (
	"context"

	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/security"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

type seedUser struct {
	id       string
	username string
	password string
	role     enums.Role
	fullName string
	phone    string
	email    string
}

// Well-known demo credentials for local setups.
var seedUsers = []seedUser{
	{id: "USR-00000001", username: "admin", password: "admin123", role: enums.RoleAdmin, fullName: "System Admin", phone: "09123456789", email: "admin@email.com"},
	{id: "USR-00000002", username: "agent", password: "agent123", role: enums.RoleAgent, fullName: "Demo Agent", phone: "09999999999", email: "agent@email.com"},
	{id: "USR-00000003", username: "customer", password: "customer123", role: enums.RoleCustomer, fullName: "Demo Customer", phone: "09888888888", email: "customer@email.com"},
}

// Run seeds each empty collection. Collections that already hold records
// are left untouched, so it is safe to run on every start.
func Run(ctx context.Context, s store.Store, passwords config.PasswordConfig, logg *logger.Logger) error {
	users := store.ReadList[types.User](ctx, s, store.KeyUsers)
	if len(users) == 0 {
		seeded := make([]types.User, 0, len(seedUsers))
		for _, candidate := range seedUsers {
			hash, err := security.HashPassword(candidate.password, passwords)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash seed password")
			}
			seeded = append(seeded, types.User{
				ID:           candidate.id,
				Username:     candidate.username,
				PasswordHash: hash,
				Role:         candidate.role,
				FullName:     candidate.fullName,
				Phone:        candidate.phone,
				Email:        candidate.email,
			})
		}
		if err := store.WriteList(ctx, s, store.KeyUsers, seeded); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed users")
		}
		if logg != nil {
			logg.Info(ctx, "seeded demo users")
		}
	}

	properties := store.ReadList[types.Property](ctx, s, store.KeyProperties)
	if len(properties) == 0 {
		seeded := []types.Property{{
			ID:          "PROP-00000101",
			Title:       "2BR Condo - Downtown",
			Description: "Near mall, clean and modern condo.",
			Price:       25000,
			Location:    "Davao City",
			Status:      enums.PropertyStatusAvailable,
			Agent:       "agent",
		}}
		if err := store.WriteList(ctx, s, store.KeyProperties, seeded); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed properties")
		}
		if logg != nil {
			logg.Info(ctx, "seeded sample listing")
		}
	}

	for _, key := range []string{
		store.KeyAppointments,
		store.KeyOfficeMeets,
		store.KeyTrips,
		store.KeyReviews,
		store.KeyNotifications,
	} {
		existing, err := s.Read(ctx, key)
		if err == nil && existing != nil {
			continue
		}
		if err := store.WriteList(ctx, s, key, []struct{}{}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed empty collection")
		}
	}
	return nil
}
