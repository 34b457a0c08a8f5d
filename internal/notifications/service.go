// Package notifications fans Notification records out to users and owns
// their read state.
package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/identifier"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

const idPrefix = "NTF"

// Input describes one notification to dispatch.
type Input struct {
	To            string
	Type          enums.NotificationType
	Title         string
	Message       string
	AppointmentID string
	Meta          map[string]string
}

type Service struct {
	store store.Store
	now   func() time.Time
	newID func(string) string
}

// NewService wires the dispatcher to the collection store.
func NewService(s store.Store) (*Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications store required")
	}
	return &Service{
		store: s,
		now:   time.Now,
		newID: identifier.New,
	}, nil
}

// NotifyUser appends a notification to the front of the collection. Inputs
// with an empty recipient or an empty-after-trim message produce no record
// and return nil; dispatch is best-effort and never fails the calling
// workflow.
func (s *Service) NotifyUser(ctx context.Context, in Input) *types.Notification {
	to := strings.TrimSpace(in.To)
	message := strings.TrimSpace(in.Message)
	if to == "" || message == "" {
		return nil
	}

	kind := in.Type
	if !kind.IsValid() {
		kind = enums.NotificationTypeGeneral
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Notification"
	}

	notification := types.Notification{
		ID:            s.newID(idPrefix),
		To:            to,
		Type:          kind,
		Title:         title,
		Message:       message,
		AppointmentID: in.AppointmentID,
		Meta:          in.Meta,
		CreatedAt:     s.now().UTC(),
	}

	current := store.ReadList[types.Notification](ctx, s.store, store.KeyNotifications)
	next := append([]types.Notification{notification}, current...)
	if err := store.WriteList(ctx, s.store, store.KeyNotifications, next); err != nil {
		return nil
	}
	return &notification
}

// NotifyRoles resolves the recipient set as every user whose role is in
// roles, plus the explicit usernames, minus the actor, then dispatches one
// notification per recipient.
func (s *Service) NotifyRoles(ctx context.Context, actor string, roles []enums.Role, explicit []string, in Input) []types.Notification {
	roleSet := make(map[enums.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	recipients := make(map[string]struct{})
	for _, username := range explicit {
		if trimmed := strings.TrimSpace(username); trimmed != "" {
			recipients[trimmed] = struct{}{}
		}
	}
	for _, user := range store.ReadList[types.User](ctx, s.store, store.KeyUsers) {
		if _, ok := roleSet[user.Role]; !ok {
			continue
		}
		if username := strings.TrimSpace(user.Username); username != "" {
			recipients[username] = struct{}{}
		}
	}
	delete(recipients, actor)

	var sent []types.Notification
	for recipient := range recipients {
		targeted := in
		targeted.To = recipient
		if notification := s.NotifyUser(ctx, targeted); notification != nil {
			sent = append(sent, *notification)
		}
	}
	return sent
}

// ListFor returns the notifications addressed to username, newest first.
func (s *Service) ListFor(ctx context.Context, username string) []types.Notification {
	username = strings.TrimSpace(username)
	var mine []types.Notification
	for _, notification := range store.ReadList[types.Notification](ctx, s.store, store.KeyNotifications) {
		if strings.TrimSpace(notification.To) == username {
			mine = append(mine, notification)
		}
	}
	return mine
}

// UnreadCountFor counts the unread notifications addressed to username.
func (s *Service) UnreadCountFor(ctx context.Context, username string) int {
	count := 0
	for _, notification := range s.ListFor(ctx, username) {
		if notification.ReadAt == nil {
			count++
		}
	}
	return count
}

// MarkRead stamps readAt on one of username's notifications. Already-read
// records are left untouched, so repeated calls yield the same readAt.
func (s *Service) MarkRead(ctx context.Context, username, id string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	all := store.ReadList[types.Notification](ctx, s.store, store.KeyNotifications)
	found := false
	changed := false
	for i := range all {
		if all[i].ID != id || strings.TrimSpace(all[i].To) != username {
			continue
		}
		found = true
		if all[i].ReadAt == nil {
			now := s.now().UTC()
			all[i].ReadAt = &now
			changed = true
		}
		break
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	if !changed {
		return nil
	}
	if err := store.WriteList(ctx, s.store, store.KeyNotifications, all); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

// MarkAllRead stamps readAt on every unread notification addressed to
// username and returns the number updated.
func (s *Service) MarkAllRead(ctx context.Context, username string) (int, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}

	all := store.ReadList[types.Notification](ctx, s.store, store.KeyNotifications)
	now := s.now().UTC()
	updated := 0
	for i := range all {
		if strings.TrimSpace(all[i].To) != username || all[i].ReadAt != nil {
			continue
		}
		all[i].ReadAt = &now
		updated++
	}
	if updated == 0 {
		return 0, nil
	}
	if err := store.WriteList(ctx, s.store, store.KeyNotifications, all); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return updated, nil
}
