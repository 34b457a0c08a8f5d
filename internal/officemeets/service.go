// Package officemeets owns walk-in and virtual meeting requests. A pending
// request is unassigned; the first agent to approve or decline it claims
// it, and only the claiming agent can later mark it done.
package officemeets

import (
	"context"
	"fmt"
	"time"

	"github.com/casalink-ph/casalink-backend/internal/notifications"
	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/identifier"
	"github.com/casalink-ph/casalink-backend/pkg/sanitize"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

const idPrefix = "MEET"

type Service struct {
	store    store.Store
	notifier *notifications.Service
	now      func() time.Time
	newID    func(string) string
}

func NewService(s store.Store, notifier *notifications.Service) (*Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "office meets store required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	return &Service{
		store:    s,
		notifier: notifier,
		now:      time.Now,
		newID:    identifier.New,
	}, nil
}

// List returns every meeting request.
func (s *Service) List(ctx context.Context) []types.OfficeMeet {
	return store.ReadList[types.OfficeMeet](ctx, s.store, store.KeyOfficeMeets)
}

// ListForCustomer returns the requests filed by or for one customer.
func (s *Service) ListForCustomer(ctx context.Context, customer string) []types.OfficeMeet {
	var mine []types.OfficeMeet
	for _, meet := range s.List(ctx) {
		if meet.Customer == customer || meet.RequestedBy == customer {
			mine = append(mine, meet)
		}
	}
	return mine
}

// ListForAgent returns the requests an agent may act on: unassigned
// pending ones plus those already claimed by this agent.
func (s *Service) ListForAgent(ctx context.Context, agent string) []types.OfficeMeet {
	var actionable []types.OfficeMeet
	for _, meet := range s.List(ctx) {
		if meet.AssignedAgent == "" || meet.AssignedAgent == agent || meet.Status == enums.MeetStatusPending {
			actionable = append(actionable, meet)
		}
	}
	return actionable
}

// RequestInput carries a meeting request.
type RequestInput struct {
	FullName string
	Email    string
	Date     string
	Time     string
	Reason   string
	Mode     enums.MeetMode
}

// Request files a pending meeting request on behalf of the acting customer
// and notifies admins and agents.
func (s *Service) Request(ctx context.Context, actor types.Actor, in RequestInput) (*types.OfficeMeet, error) {
	if !actor.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can request office meets")
	}

	fullName := sanitize.Text(in.FullName, 80)
	email := sanitize.Email(in.Email)
	reason := sanitize.Text(in.Reason, 300)
	if fullName == "" || reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name and reason are required")
	}
	if !sanitize.ValidEmail(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email format is invalid")
	}
	mode := in.Mode
	if !mode.IsValid() {
		mode = enums.MeetModeOffice
	}
	slot := types.NewSlot(in.Date, in.Time)
	if !slot.FutureOrNow(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "meet schedule must be now or in the future")
	}

	created := types.OfficeMeet{
		ID:            s.newID(idPrefix),
		Title:         "Customer Office Meet Request",
		FullName:      fullName,
		Email:         email,
		Date:          slot.Date,
		Time:          slot.Time,
		Reason:        reason,
		Mode:          mode,
		Customer:      actor.Username,
		RequestedBy:   actor.Username,
		RequestedRole: enums.RoleCustomer,
		Status:        enums.MeetStatusPending,
	}
	meets := s.List(ctx)
	next := append([]types.OfficeMeet{created}, meets...)
	if err := store.WriteList(ctx, s.store, store.KeyOfficeMeets, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist office meet")
	}

	s.notifier.NotifyRoles(ctx, actor.Username, []enums.Role{enums.RoleAdmin, enums.RoleAgent}, nil, notifications.Input{
		Type:    enums.NotificationTypeOfficeMeet,
		Title:   "New Office Meet Request",
		Message: fmt.Sprintf("Customer @%s requested a %s meet on %s at %s.", actor.Username, mode.Label(), slot.Date, slot.Time),
		Meta: map[string]string{
			"customer": actor.Username,
			"mode":     mode.String(),
			"date":     slot.Date,
			"time":     slot.Time,
		},
	})
	return &created, nil
}

// Approve claims a pending request for the acting agent and notifies the
// requester.
func (s *Service) Approve(ctx context.Context, actor types.Actor, id string) (*types.OfficeMeet, error) {
	return s.transition(ctx, actor, id, enums.MeetStatusApproved)
}

// Decline claims a pending request for the acting agent, refuses it and
// notifies the requester.
func (s *Service) Decline(ctx context.Context, actor types.Actor, id string) (*types.OfficeMeet, error) {
	return s.transition(ctx, actor, id, enums.MeetStatusDeclined)
}

// MarkDone completes an approved request. Only the assigned agent may do
// this; the requester is notified.
func (s *Service) MarkDone(ctx context.Context, actor types.Actor, id string) (*types.OfficeMeet, error) {
	return s.transition(ctx, actor, id, enums.MeetStatusDone)
}

// Remove hard-deletes a terminal request. Assigned agent or admin only.
func (s *Service) Remove(ctx context.Context, actor types.Actor, id string) error {
	meets := s.List(ctx)
	for i, meet := range meets {
		if meet.ID != id {
			continue
		}
		if !actor.IsAdmin() && !(actor.IsAgent() && meet.AssignedAgent == actor.Username) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the assigned agent or an admin can remove meet records")
		}
		if !meet.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only declined or completed meets can be removed")
		}
		next := append(meets[:i], meets[i+1:]...)
		if err := store.WriteList(ctx, s.store, store.KeyOfficeMeets, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist office meets")
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "office meet not found")
}

func (s *Service) transition(ctx context.Context, actor types.Actor, id string, to enums.MeetStatus) (*types.OfficeMeet, error) {
	if !actor.IsAgent() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only agents can act on office meets")
	}

	meets := s.List(ctx)
	index := -1
	for i, meet := range meets {
		if meet.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "office meet not found")
	}

	target := &meets[index]
	switch to {
	case enums.MeetStatusApproved, enums.MeetStatusDeclined:
		if target.Status != enums.MeetStatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending meets can be approved or declined")
		}
		if target.AssignedAgent != "" && target.AssignedAgent != actor.Username {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "this meet is already claimed by another agent")
		}
	case enums.MeetStatusDone:
		if target.Status != enums.MeetStatusApproved {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only approved meets can be marked done")
		}
		if target.AssignedAgent != actor.Username {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the assigned agent can complete this meet")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported meet transition")
	}

	target.Status = to
	target.AssignedAgent = actor.Username

	if err := store.WriteList(ctx, s.store, store.KeyOfficeMeets, meets); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist office meet")
	}

	updated := meets[index]
	s.notifyRequester(ctx, actor, updated)
	return &updated, nil
}

func (s *Service) notifyRequester(ctx context.Context, actor types.Actor, meet types.OfficeMeet) {
	to := meet.Customer
	if to == "" {
		to = meet.RequestedBy
	}

	statusLabel := meet.Status.String()
	if meet.Status == enums.MeetStatusDone {
		statusLabel = "completed"
	}

	s.notifier.NotifyUser(ctx, notifications.Input{
		To:      to,
		Type:    enums.NotificationTypeOfficeMeet,
		Title:   "Office Meet Update",
		Message: fmt.Sprintf("Agent @%s marked your %s office meet as %s (%s %s).", actor.Username, meet.Mode.Label(), statusLabel, meet.Date, meet.Time),
		Meta: map[string]string{
			"meetId": meet.ID,
			"status": meet.Status.String(),
			"date":   meet.Date,
			"time":   meet.Time,
			"mode":   meet.Mode.String(),
			"agent":  actor.Username,
		},
	})
}
