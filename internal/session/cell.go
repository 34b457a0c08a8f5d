// Package session owns the currentUser cell: the single distinguished store
// key holding the signed-in principal for this context.
package session

import (
	"context"

	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

type Cell struct {
	store store.Store
}

func NewCell(s store.Store) *Cell {
	return &Cell{store: s}
}

// Current returns the signed-in principal, if any.
func (c *Cell) Current(ctx context.Context) (types.Principal, bool) {
	return store.ReadCell[types.Principal](ctx, c.store, store.KeyCurrentUser)
}

// Set replaces the signed-in principal.
func (c *Cell) Set(ctx context.Context, principal types.Principal) error {
	return store.WriteCell(ctx, c.store, store.KeyCurrentUser, principal)
}

// Clear signs the principal out.
func (c *Cell) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, store.KeyCurrentUser)
}
