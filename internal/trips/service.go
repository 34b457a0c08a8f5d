// Package trips owns agent-organized property tours. The owning agent
// drives the status machine (planned -> in-progress -> done, or planned ->
// cancelled) while customers join and leave the attendee set independently
// at any non-terminal state.
package trips

import (
	"context"
	"time"

	"github.com/casalink-ph/casalink-backend/internal/properties"
	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/identifier"
	"github.com/casalink-ph/casalink-backend/pkg/sanitize"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

const idPrefix = "TRIP"

type Service struct {
	store store.Store
	props *properties.Service
	now   func() time.Time
	newID func(string) string
}

func NewService(s store.Store, props *properties.Service) (*Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "trips store required")
	}
	if props == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "properties service required")
	}
	return &Service{
		store: s,
		props: props,
		now:   time.Now,
		newID: identifier.New,
	}, nil
}

// List returns every trip.
func (s *Service) List(ctx context.Context) []types.Trip {
	return store.ReadList[types.Trip](ctx, s.store, store.KeyTrips)
}

// ListForAgent returns the trips organized by one agent.
func (s *Service) ListForAgent(ctx context.Context, agent string) []types.Trip {
	var mine []types.Trip
	for _, trip := range s.List(ctx) {
		if trip.Agent == agent {
			mine = append(mine, trip)
		}
	}
	return mine
}

// ListForCustomer returns the trips a customer belongs to.
func (s *Service) ListForCustomer(ctx context.Context, customer string) []types.Trip {
	var mine []types.Trip
	for _, trip := range s.List(ctx) {
		if trip.Customer == customer || trip.HasAttendee(customer) {
			mine = append(mine, trip)
		}
	}
	return mine
}

// PlanInput carries a new tour.
type PlanInput struct {
	Customer    string
	Date        string
	Time        string
	PropertyIDs []string
	Notes       string
}

// Plan creates a planned trip owned by the acting agent over a non-empty
// set of the agent's own listings, with the customer as primary requester
// and sole initial attendee. The title defaults to the first selected
// listing's title plus " Tour".
func (s *Service) Plan(ctx context.Context, actor types.Actor, in PlanInput) (*types.Trip, error) {
	if !actor.IsAgent() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only agents can schedule trips")
	}
	customer := sanitize.Username(in.Customer)
	if customer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer is required")
	}
	slot := types.NewSlot(in.Date, in.Time)
	if !slot.FutureOrNow(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip schedule must be now or in the future")
	}

	seen := make(map[string]struct{}, len(in.PropertyIDs))
	var propertyIDs []string
	for _, id := range in.PropertyIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		propertyIDs = append(propertyIDs, id)
	}
	if len(propertyIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select at least one property")
	}

	var primary *types.Property
	for _, id := range propertyIDs {
		property, err := s.props.Get(ctx, id)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected property does not exist")
		}
		if property.Agent != actor.Username {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "trips can only visit your own listings")
		}
		if primary == nil {
			primary = &property
		}
	}

	title := "Property Tour"
	location := "Davao City"
	if primary != nil {
		if primary.Title != "" {
			title = primary.Title + " Tour"
		}
		if primary.Location != "" {
			location = primary.Location
		}
	}

	created := types.Trip{
		ID:          s.newID(idPrefix),
		Title:       title,
		Location:    location,
		Date:        slot.Date,
		Time:        slot.Time,
		Status:      enums.TripStatusPlanned,
		Customer:    customer,
		PropertyIDs: propertyIDs,
		Notes:       sanitize.Text(in.Notes, 400),
		Attendees:   []string{customer},
		Agent:       actor.Username,
	}
	trips := s.List(ctx)
	next := append([]types.Trip{created}, trips...)
	if err := store.WriteList(ctx, s.store, store.KeyTrips, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist trip")
	}
	return &created, nil
}

// Start moves a planned trip to in-progress.
func (s *Service) Start(ctx context.Context, actor types.Actor, id string) (*types.Trip, error) {
	return s.transition(ctx, actor, id, enums.TripStatusPlanned, enums.TripStatusInProgress)
}

// Complete moves an in-progress trip to done.
func (s *Service) Complete(ctx context.Context, actor types.Actor, id string) (*types.Trip, error) {
	return s.transition(ctx, actor, id, enums.TripStatusInProgress, enums.TripStatusDone)
}

// Cancel calls off a planned trip.
func (s *Service) Cancel(ctx context.Context, actor types.Actor, id string) (*types.Trip, error) {
	return s.transition(ctx, actor, id, enums.TripStatusPlanned, enums.TripStatusCancelled)
}

// Join adds the acting customer to the attendee set; already-joined
// customers stay joined. A trip without a primary customer adopts the
// joiner as primary.
func (s *Service) Join(ctx context.Context, actor types.Actor, id string) (*types.Trip, error) {
	if !actor.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can join trips")
	}
	return s.mutate(ctx, id, func(trip *types.Trip) error {
		if trip.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "this tour is no longer open")
		}
		if !trip.HasAttendee(actor.Username) {
			trip.Attendees = append(trip.Attendees, actor.Username)
		}
		if trip.Customer == "" {
			trip.Customer = actor.Username
		}
		return nil
	})
}

// Leave removes the acting customer from the attendee set. The primary
// customer slot is cleared only when the leaver held it and nobody else
// remains.
func (s *Service) Leave(ctx context.Context, actor types.Actor, id string) (*types.Trip, error) {
	if !actor.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can leave trips")
	}
	return s.mutate(ctx, id, func(trip *types.Trip) error {
		if trip.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "this tour is no longer open")
		}
		remaining := make([]string, 0, len(trip.Attendees))
		for _, attendee := range trip.Attendees {
			if attendee != actor.Username {
				remaining = append(remaining, attendee)
			}
		}
		trip.Attendees = remaining
		if trip.Customer == actor.Username && len(remaining) == 0 {
			trip.Customer = ""
		}
		return nil
	})
}

// Remove hard-deletes a trip. Owning agent or admin only.
func (s *Service) Remove(ctx context.Context, actor types.Actor, id string) error {
	trips := s.List(ctx)
	for i, trip := range trips {
		if trip.ID != id {
			continue
		}
		if !actor.IsAdmin() && !(actor.IsAgent() && trip.Agent == actor.Username) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the organizing agent or an admin can delete trips")
		}
		next := append(trips[:i], trips[i+1:]...)
		if err := store.WriteList(ctx, s.store, store.KeyTrips, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist trips")
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
}

func (s *Service) transition(ctx context.Context, actor types.Actor, id string, from, to enums.TripStatus) (*types.Trip, error) {
	if !actor.IsAgent() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only agents can change trip status")
	}
	return s.mutate(ctx, id, func(trip *types.Trip) error {
		if trip.Agent != actor.Username {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the organizing agent can change this trip")
		}
		if trip.Status != from {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trip is not in a state that allows this change")
		}
		trip.Status = to
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, id string, apply func(*types.Trip) error) (*types.Trip, error) {
	trips := s.List(ctx)
	for i := range trips {
		if trips[i].ID != id {
			continue
		}
		if err := apply(&trips[i]); err != nil {
			return nil, err
		}
		if err := store.WriteList(ctx, s.store, store.KeyTrips, trips); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist trip")
		}
		updated := trips[i]
		return &updated, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
}
