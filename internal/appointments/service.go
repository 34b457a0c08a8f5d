// Package appointments owns the viewing-request state machine.
//
// Transitions:
//
//	pending              -> approved | declined | cancelled
//	pending, approved,
//	rescheduled          -> rescheduled | cancelled
//	approved, rescheduled -> done
//
// done, declined and cancelled are terminal; terminal records can only be
// removed. Every agent transition except done notifies the customer.
package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/casalink-ph/casalink-backend/internal/notifications"
	"github.com/casalink-ph/casalink-backend/internal/properties"
	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/identifier"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

const idPrefix = "APP"

type Service struct {
	store    store.Store
	props    *properties.Service
	notifier *notifications.Service
	now      func() time.Time
	newID    func(string) string
}

func NewService(s store.Store, props *properties.Service, notifier *notifications.Service) (*Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "appointments store required")
	}
	if props == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "properties service required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	return &Service{
		store:    s,
		props:    props,
		notifier: notifier,
		now:      time.Now,
		newID:    identifier.New,
	}, nil
}

// List returns every appointment.
func (s *Service) List(ctx context.Context) []types.Appointment {
	return store.ReadList[types.Appointment](ctx, s.store, store.KeyAppointments)
}

// ListForCustomer returns the appointments booked by one customer, newest
// first as stored.
func (s *Service) ListForCustomer(ctx context.Context, customer string) []types.Appointment {
	var mine []types.Appointment
	for _, appointment := range s.List(ctx) {
		if appointment.Customer == customer {
			mine = append(mine, appointment)
		}
	}
	return mine
}

// ListForAgent returns the appointments targeting one agent's listings.
func (s *Service) ListForAgent(ctx context.Context, agent string) []types.Appointment {
	var mine []types.Appointment
	for _, appointment := range s.List(ctx) {
		if appointment.Agent == agent {
			mine = append(mine, appointment)
		}
	}
	return mine
}

// BookInput carries a booking request.
type BookInput struct {
	PropertyID string
	Date       string
	Time       string
}

// Book creates a pending appointment against an available listing, with a
// denormalized property snapshot, and notifies the admins plus the
// listing's agent. Duplicate (customer, property, date, time) bookings are
// rejected.
func (s *Service) Book(ctx context.Context, actor types.Actor, in BookInput) (*types.Appointment, error) {
	if !actor.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can book viewings")
	}
	slot := types.NewSlot(in.Date, in.Time)
	if !slot.FutureOrNow(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment schedule must be now or in the future")
	}

	property, err := s.props.Get(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.Status != enums.PropertyStatusAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "property is not available for viewings")
	}

	appointments := s.List(ctx)
	for _, existing := range appointments {
		if existing.Customer == actor.Username &&
			existing.PropertyID == property.ID &&
			existing.Date == slot.Date && existing.Time == slot.Time {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have a booking with the same property, date and time")
		}
	}

	created := types.Appointment{
		ID:            s.newID(idPrefix),
		PropertyID:    property.ID,
		PropertyImage: property.ImageURL,
		PropertyTitle: property.Title,
		Location:      property.Location,
		Agent:         property.Agent,
		Customer:      actor.Username,
		Date:          slot.Date,
		Time:          slot.Time,
		Status:        enums.AppointmentStatusPending,
	}
	next := append([]types.Appointment{created}, appointments...)
	if err := store.WriteList(ctx, s.store, store.KeyAppointments, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist appointment")
	}

	s.notifier.NotifyRoles(ctx, actor.Username, []enums.Role{enums.RoleAdmin}, []string{property.Agent}, notifications.Input{
		Type:    enums.NotificationTypeAppointment,
		Title:   "New Appointment Request",
		Message: fmt.Sprintf("Customer @%s requested %s on %s at %s.", actor.Username, property.Title, slot.Date, slot.Time),
		Meta: map[string]string{
			"customer":      actor.Username,
			"agent":         property.Agent,
			"propertyId":    property.ID,
			"propertyTitle": property.Title,
			"date":          slot.Date,
			"time":          slot.Time,
		},
	})
	return &created, nil
}

// Approve confirms a pending or rescheduled appointment and notifies the
// customer.
func (s *Service) Approve(ctx context.Context, actor types.Actor, id string) (*types.Appointment, error) {
	return s.transition(ctx, actor, id, enums.AppointmentStatusApproved, transitionOptions{})
}

// Decline refuses a pending appointment and notifies the customer.
func (s *Service) Decline(ctx context.Context, actor types.Actor, id string) (*types.Appointment, error) {
	return s.transition(ctx, actor, id, enums.AppointmentStatusDeclined, transitionOptions{})
}

// MarkDone completes an approved or rescheduled appointment. No
// notification is sent.
func (s *Service) MarkDone(ctx context.Context, actor types.Actor, id string) (*types.Appointment, error) {
	return s.transition(ctx, actor, id, enums.AppointmentStatusDone, transitionOptions{})
}

// Reschedule moves a non-terminal appointment to a new future-or-now slot,
// stamps the reschedule audit fields and notifies the customer with the
// previous slot.
func (s *Service) Reschedule(ctx context.Context, actor types.Actor, id, date, clock string) (*types.Appointment, error) {
	slot := types.NewSlot(date, clock)
	if !slot.FutureOrNow(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment schedule must be now or in the future")
	}
	return s.transition(ctx, actor, id, enums.AppointmentStatusRescheduled, transitionOptions{slot: &slot})
}

// Cancel calls off an appointment. Agents may cancel any non-terminal
// appointment of theirs; the customer may cancel only while it is pending.
// The other party is notified.
func (s *Service) Cancel(ctx context.Context, actor types.Actor, id string) (*types.Appointment, error) {
	return s.transition(ctx, actor, id, enums.AppointmentStatusCancelled, transitionOptions{})
}

// Remove hard-deletes a terminal appointment record. Owning agent or
// admin only.
func (s *Service) Remove(ctx context.Context, actor types.Actor, id string) error {
	appointments := s.List(ctx)
	for i, appointment := range appointments {
		if appointment.ID != id {
			continue
		}
		if !actor.IsAdmin() && !(actor.IsAgent() && appointment.Agent == actor.Username) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the owning agent or an admin can remove appointment records")
		}
		if !appointment.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only done, declined or cancelled appointments can be removed")
		}
		next := append(appointments[:i], appointments[i+1:]...)
		if err := store.WriteList(ctx, s.store, store.KeyAppointments, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist appointments")
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
}

type transitionOptions struct {
	slot *types.Slot
}

var allowedFrom = map[enums.AppointmentStatus][]enums.AppointmentStatus{
	enums.AppointmentStatusApproved:    {enums.AppointmentStatusPending, enums.AppointmentStatusRescheduled},
	enums.AppointmentStatusDeclined:    {enums.AppointmentStatusPending},
	enums.AppointmentStatusRescheduled: {enums.AppointmentStatusPending, enums.AppointmentStatusApproved, enums.AppointmentStatusRescheduled},
	enums.AppointmentStatusDone:        {enums.AppointmentStatusApproved, enums.AppointmentStatusRescheduled},
	enums.AppointmentStatusCancelled:   {enums.AppointmentStatusPending, enums.AppointmentStatusApproved, enums.AppointmentStatusRescheduled},
}

func transitionAllowed(from, to enums.AppointmentStatus) bool {
	for _, candidate := range allowedFrom[to] {
		if candidate == from {
			return true
		}
	}
	return false
}

func (s *Service) transition(ctx context.Context, actor types.Actor, id string, to enums.AppointmentStatus, opts transitionOptions) (*types.Appointment, error) {
	appointments := s.List(ctx)
	index := -1
	for i, appointment := range appointments {
		if appointment.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}

	target := &appointments[index]
	switch {
	case actor.IsAgent() && target.Agent == actor.Username:
	case actor.IsCustomer() && target.Customer == actor.Username:
		if to != enums.AppointmentStatusCancelled || target.Status != enums.AppointmentStatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "customers can only cancel their own pending appointments")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this appointment")
	}

	if !transitionAllowed(target.Status, to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move a %s appointment to %s", target.Status, to))
	}

	previousDate, previousTime := target.Date, target.Time
	target.Status = to
	if opts.slot != nil {
		target.Date = opts.slot.Date
		target.Time = opts.slot.Time
		at := s.now().UTC()
		target.RescheduledAt = &at
		target.RescheduledBy = actor.Username
	}

	if err := store.WriteList(ctx, s.store, store.KeyAppointments, appointments); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist appointment")
	}

	updated := appointments[index]
	s.notifyTransition(ctx, actor, updated, previousDate, previousTime)
	return &updated, nil
}

// notifyTransition tells the other party about the status change. Done is
// silent; a customer cancellation goes to the agent, everything else goes
// to the customer.
func (s *Service) notifyTransition(ctx context.Context, actor types.Actor, a types.Appointment, previousDate, previousTime string) {
	if a.Status == enums.AppointmentStatusDone {
		return
	}

	propertyLabel := a.PropertyTitle
	if propertyLabel == "" {
		propertyLabel = "your appointment"
	}

	if actor.IsCustomer() {
		s.notifier.NotifyUser(ctx, notifications.Input{
			To:            a.Agent,
			Type:          enums.NotificationTypeAppointment,
			Title:         "Appointment Update",
			Message:       fmt.Sprintf("Customer @%s cancelled %s scheduled on %s at %s.", actor.Username, propertyLabel, a.Date, a.Time),
			AppointmentID: a.ID,
			Meta:          transitionMeta(a, actor.Username),
		})
		return
	}

	var message string
	switch a.Status {
	case enums.AppointmentStatusApproved:
		message = fmt.Sprintf("Agent @%s confirmed %s on %s at %s.", actor.Username, propertyLabel, a.Date, a.Time)
	case enums.AppointmentStatusRescheduled:
		previousSlot := ""
		if previousDate != "" && previousTime != "" {
			previousSlot = fmt.Sprintf(" from %s %s", previousDate, previousTime)
		}
		message = fmt.Sprintf("Agent @%s rescheduled %s%s to %s %s.", actor.Username, propertyLabel, previousSlot, a.Date, a.Time)
	case enums.AppointmentStatusDeclined:
		message = fmt.Sprintf("Agent @%s declined %s scheduled on %s at %s.", actor.Username, propertyLabel, a.Date, a.Time)
	case enums.AppointmentStatusCancelled:
		message = fmt.Sprintf("Agent @%s cancelled %s scheduled on %s at %s.", actor.Username, propertyLabel, a.Date, a.Time)
	default:
		return
	}

	s.notifier.NotifyUser(ctx, notifications.Input{
		To:            a.Customer,
		Type:          enums.NotificationTypeAppointment,
		Title:         "Appointment Update",
		Message:       message,
		AppointmentID: a.ID,
		Meta:          transitionMeta(a, actor.Username),
	})
}

func transitionMeta(a types.Appointment, actor string) map[string]string {
	return map[string]string{
		"status":        a.Status.String(),
		"propertyId":    a.PropertyID,
		"propertyTitle": a.PropertyTitle,
		"agent":         actor,
		"date":          a.Date,
		"time":          a.Time,
	}
}
