package notifications

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

var testNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	s := store.NewMemory(nil)
	svc, err := NewService(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.now = func() time.Time { return testNow }
	counter := 0
	svc.newID = func(prefix string) string {
		counter++
		return fmt.Sprintf("%s-%04d", prefix, counter)
	}
	return svc, s
}

func TestNotifyUserDefaults(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	sent := svc.NotifyUser(context.Background(), Input{
		To:      "maria",
		Type:    enums.NotificationType("bogus"),
		Message: "Your viewing was approved.",
	})
	if sent == nil {
		t.Fatalf("expected a notification")
	}
	if sent.Type != enums.NotificationTypeGeneral {
		t.Fatalf("invalid type should fall back to general, got %s", sent.Type)
	}
	if sent.Title != "Notification" {
		t.Fatalf("expected default title, got %q", sent.Title)
	}
	if !sent.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected createdAt %v", sent.CreatedAt)
	}
}

func TestNotifyUserDropsBlankInput(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	ctx := context.Background()

	if got := svc.NotifyUser(ctx, Input{To: "", Message: "hello"}); got != nil {
		t.Fatalf("empty recipient should be dropped, got %+v", got)
	}
	if got := svc.NotifyUser(ctx, Input{To: "maria", Message: "   "}); got != nil {
		t.Fatalf("blank message should be dropped, got %+v", got)
	}
	if all := store.ReadList[types.Notification](ctx, s, store.KeyNotifications); len(all) != 0 {
		t.Fatalf("nothing should be persisted, got %d records", len(all))
	}
}

func TestNotificationsAreNewestFirst(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.NotifyUser(ctx, Input{To: "maria", Message: "first"})
	svc.NotifyUser(ctx, Input{To: "maria", Message: "second"})

	mine := svc.ListFor(ctx, "maria")
	if len(mine) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(mine))
	}
	if mine[0].Message != "second" || mine[1].Message != "first" {
		t.Fatalf("expected newest first, got %q then %q", mine[0].Message, mine[1].Message)
	}
}

func TestNotifyRolesResolvesRecipients(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	ctx := context.Background()
	if err := store.WriteList(ctx, s, store.KeyUsers, []types.User{
		{Username: "admin", Role: enums.RoleAdmin},
		{Username: "agent", Role: enums.RoleAgent},
		{Username: "other", Role: enums.RoleAgent},
		{Username: "maria", Role: enums.RoleCustomer},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := svc.NotifyRoles(ctx, "agent", []enums.Role{enums.RoleAdmin, enums.RoleAgent}, []string{"maria", ""}, Input{
		Message: "New listing published.",
	})

	var got []string
	for _, notification := range sent {
		got = append(got, notification.To)
	}
	sort.Strings(got)
	want := []string{"admin", "maria", "other"}
	if len(got) != len(want) {
		t.Fatalf("expected recipients %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected recipients %v, got %v", want, got)
		}
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	first := svc.NotifyUser(ctx, Input{To: "maria", Message: "one"})
	svc.NotifyUser(ctx, Input{To: "maria", Message: "two"})
	svc.NotifyUser(ctx, Input{To: "someone-else", Message: "three"})

	if got := svc.UnreadCountFor(ctx, "maria"); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}

	if err := svc.MarkRead(ctx, "maria", first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.UnreadCountFor(ctx, "maria"); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}

	// repeat marking keeps the original stamp
	var stamped time.Time
	for _, notification := range svc.ListFor(ctx, "maria") {
		if notification.ID == first.ID {
			stamped = *notification.ReadAt
		}
	}
	if err := svc.MarkRead(ctx, "maria", first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, notification := range svc.ListFor(ctx, "maria") {
		if notification.ID == first.ID && !notification.ReadAt.Equal(stamped) {
			t.Fatalf("readAt must not move on repeat calls")
		}
	}
}

func TestMarkReadGuards(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	sent := svc.NotifyUser(ctx, Input{To: "maria", Message: "one"})

	err := svc.MarkRead(ctx, "maria", "NTF-404")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	// another user's id is invisible, not just unauthorized
	err = svc.MarkRead(ctx, "intruder", sent.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign reader, got %v", err)
	}

	err = svc.MarkRead(ctx, "   ", sent.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.NotifyUser(ctx, Input{To: "maria", Message: "one"})
	svc.NotifyUser(ctx, Input{To: "maria", Message: "two"})
	svc.NotifyUser(ctx, Input{To: "someone-else", Message: "three"})

	updated, err := svc.MarkAllRead(ctx, "maria")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 updated, got %d", updated)
	}
	if got := svc.UnreadCountFor(ctx, "maria"); got != 0 {
		t.Fatalf("expected 0 unread, got %d", got)
	}
	if got := svc.UnreadCountFor(ctx, "someone-else"); got != 1 {
		t.Fatalf("other inboxes must be untouched, got %d read", got)
	}

	updated, err = svc.MarkAllRead(ctx, "maria")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 0 {
		t.Fatalf("second pass should update nothing, got %d", updated)
	}
}
