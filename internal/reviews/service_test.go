package reviews

import (
	"context"
	"fmt"
	"testing"
	"time"

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

	testNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.Local)
)

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

func seedAppointment(t *testing.T, s store.Store, status enums.AppointmentStatus) {
	t.Helper()
	if err := store.WriteList(context.Background(), s, store.KeyAppointments, []types.Appointment{{
		ID:            "APP-1",
		PropertyID:    "PROP-1",
		PropertyTitle: "2BR Condo",
		Location:      "Davao City",
		Agent:         "agent",
		Customer:      "customer",
		Status:        status,
	}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func create(t *testing.T, svc *Service) *types.Review {
	t.Helper()
	created, err := svc.Create(context.Background(), customerActor, CreateInput{
		AppointmentID: "APP-1",
		Rating:        4,
		Comment:       "Great viewing, very accommodating agent.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return created
}

func TestCreateCopiesAppointmentSnapshot(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	seedAppointment(t, s, enums.AppointmentStatusDone)
	created := create(t, svc)

	if created.PropertyTitle != "2BR Condo" || created.Agent != "agent" || created.Customer != "customer" {
		t.Fatalf("snapshot not copied, got %+v", created)
	}
	if created.Rating != 4 || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected review %+v", created)
	}
}

func TestCreateRejectsSecondReview(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	seedAppointment(t, s, enums.AppointmentStatusDone)
	create(t, svc)

	_, err := svc.Create(context.Background(), customerActor, CreateInput{AppointmentID: "APP-1", Rating: 5, Comment: "Again"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateRequiresDoneAppointment(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	seedAppointment(t, s, enums.AppointmentStatusApproved)

	_, err := svc.Create(context.Background(), customerActor, CreateInput{AppointmentID: "APP-1", Rating: 4, Comment: "Too early"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCreateGuards(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	seedAppointment(t, s, enums.AppointmentStatusDone)
	ctx := context.Background()

	cases := []struct {
		name  string
		actor types.Actor
		in    CreateInput
		code  pkgerrors.Code
	}{
		{"agent cannot review", agentActor, CreateInput{AppointmentID: "APP-1", Rating: 4, Comment: "Nope"}, pkgerrors.CodeForbidden},
		{"foreign customer", types.Actor{Username: "stranger", Role: enums.RoleCustomer}, CreateInput{AppointmentID: "APP-1", Rating: 4, Comment: "Not mine"}, pkgerrors.CodeForbidden},
		{"unknown appointment", customerActor, CreateInput{AppointmentID: "APP-9", Rating: 4, Comment: "Ghost"}, pkgerrors.CodeNotFound},
		{"rating too low", customerActor, CreateInput{AppointmentID: "APP-1", Rating: 0, Comment: "Zero"}, pkgerrors.CodeValidation},
		{"rating too high", customerActor, CreateInput{AppointmentID: "APP-1", Rating: 6, Comment: "Six"}, pkgerrors.CodeValidation},
		{"blank comment", customerActor, CreateInput{AppointmentID: "APP-1", Rating: 4, Comment: "   "}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.actor, tc.in)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestToggleAddressedStampsAndClears(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	seedAppointment(t, s, enums.AppointmentStatusDone)
	created := create(t, svc)
	ctx := context.Background()

	marked, err := svc.ToggleAddressed(ctx, agentActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if marked.AddressedAt == nil || marked.AddressedBy != "agent" {
		t.Fatalf("expected addressed stamp, got %+v", marked)
	}

	reopened, err := svc.ToggleAddressed(ctx, adminActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reopened.AddressedAt != nil || reopened.AddressedBy != "" {
		t.Fatalf("expected cleared stamp, got %+v", reopened)
	}
}

func TestPinTogglesAreRoleBound(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	seedAppointment(t, s, enums.AppointmentStatusDone)
	created := create(t, svc)
	ctx := context.Background()

	pinned, err := svc.TogglePinAgent(ctx, agentActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pinned.PinnedByAgent {
		t.Fatalf("expected agent pin set")
	}
	unpinned, err := svc.TogglePinAgent(ctx, agentActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unpinned.PinnedByAgent {
		t.Fatalf("expected agent pin cleared")
	}

	if _, err := svc.TogglePinAgent(ctx, adminActor, created.ID); pkgerrors.As(err) == nil {
		t.Fatalf("admins must not use the agent pin, got %v", err)
	}
	if _, err := svc.TogglePinAdmin(ctx, agentActor, created.ID); pkgerrors.As(err) == nil {
		t.Fatalf("agents must not use the admin pin, got %v", err)
	}

	adminPinned, err := svc.TogglePinAdmin(ctx, adminActor, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !adminPinned.PinnedByAdmin {
		t.Fatalf("expected admin pin set")
	}
}

func TestMutationsAreOwnerOrAdminOnly(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	seedAppointment(t, s, enums.AppointmentStatusDone)
	created := create(t, svc)

	_, err := svc.ToggleAddressed(context.Background(), otherAgent, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign agent, got %v", err)
	}

	_, err = svc.ToggleAddressed(context.Background(), agentActor, "REV-404")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListScopes(t *testing.T) {
	t.Parallel()

	svc, s := newTestService(t)
	seedAppointment(t, s, enums.AppointmentStatusDone)
	create(t, svc)

	if got := svc.ListForAgent(context.Background(), "agent"); len(got) != 1 {
		t.Fatalf("expected 1 review for agent, got %d", len(got))
	}
	if got := svc.ListForAgent(context.Background(), "other"); len(got) != 0 {
		t.Fatalf("expected no reviews for other, got %d", len(got))
	}
	if got := svc.ListForCustomer(context.Background(), "customer"); len(got) != 1 {
		t.Fatalf("expected 1 review for customer, got %d", len(got))
	}
}
