package trips

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/casalink-ph/casalink-backend/internal/properties"
	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/enums"
	pkgerrors "github.com/casalink-ph/casalink-backend/pkg/errors"
	"github.com/casalink-ph/casalink-backend/pkg/types"
)

var (
	adminActor    = types.Actor{Username: "admin", Role: enums.RoleAdmin}
	agentActor    = types.Actor{Username: "agent", Role: enums.RoleAgent}
	otherAgent    = types.Actor{Username: "other", Role: enums.RoleAgent}
	customerActor = types.Actor{Username: "customer", Role: enums.RoleCustomer}
	secondGuest   = types.Actor{Username: "guest", Role: enums.RoleCustomer}

	testNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.Local)
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	s := store.NewMemory(nil)
	if err := store.WriteList(context.Background(), s, store.KeyProperties, []types.Property{
		{ID: "PROP-1", Title: "2BR Condo", Location: "Davao City", Agent: "agent"},
		{ID: "PROP-2", Title: "Beach House", Location: "Samal", Agent: "agent"},
		{ID: "PROP-3", Title: "Foreign Listing", Location: "Elsewhere", Agent: "other"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props, err := properties.NewService(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc, err := NewService(s, props)
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

func plan(t *testing.T, svc *Service) *types.Trip {
	t.Helper()
	created, err := svc.Plan(context.Background(), agentActor, PlanInput{
		Customer:    "customer",
		Date:        "2026-01-20",
		Time:        "09:00",
		PropertyIDs: []string{"PROP-1", "PROP-2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return created
}

func TestPlanDerivesTitleAndAttendees(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)

	if created.Status != enums.TripStatusPlanned {
		t.Fatalf("expected planned, got %s", created.Status)
	}
	if created.Title != "2BR Condo Tour" || created.Location != "Davao City" {
		t.Fatalf("title/location should come from the primary listing, got %+v", created)
	}
	if created.Customer != "customer" || len(created.Attendees) != 1 || created.Attendees[0] != "customer" {
		t.Fatalf("customer should be the sole initial attendee, got %+v", created)
	}
}

func TestPlanDeduplicatesPropertyIDs(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created, err := svc.Plan(context.Background(), agentActor, PlanInput{
		Customer:    "customer",
		Date:        "2026-01-20",
		Time:        "09:00",
		PropertyIDs: []string{"PROP-1", "", "PROP-1", "PROP-2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created.PropertyIDs) != 2 {
		t.Fatalf("expected deduplicated ids, got %v", created.PropertyIDs)
	}
}

func TestPlanGuards(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Plan(ctx, customerActor, PlanInput{Customer: "customer", Date: "2026-01-20", Time: "09:00", PropertyIDs: []string{"PROP-1"}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-agent, got %v", err)
	}

	_, err = svc.Plan(ctx, agentActor, PlanInput{Customer: "customer", Date: "2026-01-20", Time: "09:00", PropertyIDs: []string{"PROP-3"}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign listing, got %v", err)
	}

	_, err = svc.Plan(ctx, agentActor, PlanInput{Customer: "customer", Date: "2026-01-20", Time: "09:00"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty selection, got %v", err)
	}

	_, err = svc.Plan(ctx, agentActor, PlanInput{Customer: "customer", Date: "2026-01-01", Time: "09:00", PropertyIDs: []string{"PROP-1"}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for past slot, got %v", err)
	}
}

func TestStatusMachine(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)
	ctx := context.Background()

	// done requires in-progress first
	_, err := svc.Complete(ctx, agentActor, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	started, err := svc.Start(ctx, agentActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started.Status != enums.TripStatusInProgress {
		t.Fatalf("expected in-progress, got %s", started.Status)
	}

	// an in-progress trip can no longer be cancelled
	_, err = svc.Cancel(ctx, agentActor, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	finished, err := svc.Complete(ctx, agentActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finished.Status != enums.TripStatusDone {
		t.Fatalf("expected done, got %s", finished.Status)
	}
}

func TestTransitionsAreOwnerOnly(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)

	_, err := svc.Start(context.Background(), otherAgent, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign agent, got %v", err)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)
	ctx := context.Background()

	joined, err := svc.Join(ctx, secondGuest, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(joined.Attendees) != 2 || !joined.HasAttendee("guest") {
		t.Fatalf("unexpected attendees %v", joined.Attendees)
	}

	again, err := svc.Join(ctx, secondGuest, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again.Attendees) != 2 {
		t.Fatalf("joining twice must not duplicate, got %v", again.Attendees)
	}
}

func TestJoinAdoptsPrimaryWhenEmpty(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	if err := store.WriteList(context.Background(), s, store.KeyTrips, []types.Trip{
		{ID: "TRIP-1", Status: enums.TripStatusPlanned, Agent: "agent", Attendees: []string{}},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined, err := svc.Join(context.Background(), secondGuest, "TRIP-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if joined.Customer != "guest" {
		t.Fatalf("joiner should become primary on an ownerless trip, got %q", joined.Customer)
	}
}

func TestLeaveKeepsPrimaryWhileOthersRemain(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)
	ctx := context.Background()

	if _, err := svc.Join(ctx, secondGuest, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the primary leaves but another attendee remains
	left, err := svc.Leave(ctx, customerActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left.Customer != "customer" {
		t.Fatalf("primary slot should survive while attendees remain, got %q", left.Customer)
	}
	if left.HasAttendee("customer") || !left.HasAttendee("guest") {
		t.Fatalf("unexpected attendees %v", left.Attendees)
	}

	// once the last attendee leaves nothing holds the primary slot
	last, err := svc.Leave(ctx, secondGuest, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Attendees) != 0 {
		t.Fatalf("expected empty attendees, got %v", last.Attendees)
	}
	if last.Customer != "customer" {
		t.Fatalf("primary is cleared only when the leaver held it, got %q", last.Customer)
	}
}

func TestLeaveClearsPrimaryWhenLastHolderLeaves(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)

	left, err := svc.Leave(context.Background(), customerActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left.Customer != "" || len(left.Attendees) != 0 {
		t.Fatalf("primary should be cleared, got %+v", left)
	}
}

func TestJoinRejectsTerminalTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)
	ctx := context.Background()

	if _, err := svc.Cancel(ctx, agentActor, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Join(ctx, secondGuest, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)
	ctx := context.Background()

	err := svc.Remove(ctx, otherAgent, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Remove(ctx, adminActor, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining := svc.List(ctx); len(remaining) != 0 {
		t.Fatalf("expected empty collection, got %v", remaining)
	}
}

func TestListForCustomerIncludesJoinedTrips(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created := plan(t, svc)

	if _, err := svc.Join(context.Background(), secondGuest, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.ListForCustomer(context.Background(), "guest"); len(got) != 1 {
		t.Fatalf("joined customer should see the trip, got %v", got)
	}
	if got := svc.ListForAgent(context.Background(), "agent"); len(got) != 1 {
		t.Fatalf("organizing agent should see the trip, got %v", got)
	}
}
