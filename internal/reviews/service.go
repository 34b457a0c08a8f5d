// Package reviews owns ratings for completed appointments: one review per
// done appointment, created by its customer, plus the addressed and pinned
// toggles for agents and admins.
package reviews

import (
	"context"
	"time"

	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/identifier"
	"github.com/casalink-ph/casalink-backend/pkg/sanitize"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

const idPrefix = "REV"

type Service struct {
	store store.Store
	now   func() time.Time
	newID func(string) string
}

func NewService(s store.Store) (*Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews store required")
	}
	return &Service{store: s, now: time.Now, newID: identifier.New}, nil
}

// List returns every review.
func (s *Service) List(ctx context.Context) []types.Review {
	return store.ReadList[types.Review](ctx, s.store, store.KeyReviews)
}

// ListForAgent returns the reviews against one agent's listings.
func (s *Service) ListForAgent(ctx context.Context, agent string) []types.Review {
	var mine []types.Review
	for _, review := range s.List(ctx) {
		if review.Agent == agent {
			mine = append(mine, review)
		}
	}
	return mine
}

// ListForCustomer returns the reviews written by one customer.
func (s *Service) ListForCustomer(ctx context.Context, customer string) []types.Review {
	var mine []types.Review
	for _, review := range s.List(ctx) {
		if review.Customer == customer {
			mine = append(mine, review)
		}
	}
	return mine
}

// CreateInput carries a new rating.
type CreateInput struct {
	AppointmentID string
	Rating        int
	Comment       string
}

// Create rates a completed appointment. The acting customer must own the
// appointment, its status must be done, and it must not have been reviewed
// before. The property snapshot is copied from the appointment so the
// review outlives the listing.
func (s *Service) Create(ctx context.Context, actor types.Actor, in CreateInput) (*types.Review, error) {
	if !actor.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can write reviews")
	}
	comment := sanitize.Text(in.Comment, 500)
	if comment == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please add a comment")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5 stars")
	}

	var appointment *types.Appointment
	for _, candidate := range store.ReadList[types.Appointment](ctx, s.store, store.KeyAppointments) {
		if candidate.ID == in.AppointmentID {
			found := candidate
			appointment = &found
			break
		}
	}
	if appointment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}
	if appointment.Customer != actor.Username {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only review your own appointments")
	}
	if appointment.Status != enums.AppointmentStatusDone {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only completed appointments can be reviewed")
	}

	reviews := s.List(ctx)
	for _, existing := range reviews {
		if existing.AppointmentID == in.AppointmentID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already reviewed this appointment")
		}
	}

	created := types.Review{
		ID:            s.newID(idPrefix),
		AppointmentID: appointment.ID,
		PropertyID:    appointment.PropertyID,
		PropertyImage: appointment.PropertyImage,
		PropertyTitle: appointment.PropertyTitle,
		Location:      appointment.Location,
		Agent:         appointment.Agent,
		Customer:      actor.Username,
		Rating:        in.Rating,
		Comment:       comment,
		CreatedAt:     s.now().UTC(),
	}
	next := append([]types.Review{created}, reviews...)
	if err := store.WriteList(ctx, s.store, store.KeyReviews, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist review")
	}
	return &created, nil
}

// ToggleAddressed flips the addressed marker. Marking stamps the acting
// agent and time; reopening clears both. Owning agent or admin only.
func (s *Service) ToggleAddressed(ctx context.Context, actor types.Actor, id string) (*types.Review, error) {
	return s.mutate(ctx, actor, id, func(review *types.Review) {
		if review.AddressedAt != nil {
			review.AddressedAt = nil
			review.AddressedBy = ""
			return
		}
		at := s.now().UTC()
		review.AddressedAt = &at
		review.AddressedBy = actor.Username
	})
}

// TogglePinAgent flips the agent pin. Owning agent only.
func (s *Service) TogglePinAgent(ctx context.Context, actor types.Actor, id string) (*types.Review, error) {
	if !actor.IsAgent() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only agents can pin insights")
	}
	return s.mutate(ctx, actor, id, func(review *types.Review) {
		review.PinnedByAgent = !review.PinnedByAgent
	})
}

// TogglePinAdmin flips the admin pin.
func (s *Service) TogglePinAdmin(ctx context.Context, actor types.Actor, id string) (*types.Review, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can pin reviews")
	}
	return s.mutate(ctx, actor, id, func(review *types.Review) {
		review.PinnedByAdmin = !review.PinnedByAdmin
	})
}

func (s *Service) mutate(ctx context.Context, actor types.Actor, id string, apply func(*types.Review)) (*types.Review, error) {
	reviews := s.List(ctx)
	for i := range reviews {
		if reviews[i].ID != id {
			continue
		}
		if !actor.IsAdmin() && !(actor.IsAgent() && reviews[i].Agent == actor.Username) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the reviewed agent or an admin can update this review")
		}
		apply(&reviews[i])
		if err := store.WriteList(ctx, s.store, store.KeyReviews, reviews); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist review")
		}
		updated := reviews[i]
		return &updated, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
}
