package store

import (
	"context"
	"testing"

	"github.com/casalink-ph/casalink-backend/internal/bus"
)

func TestMemoryPublishesOnWriteAndDelete(t *testing.T) {
	t.Parallel()

	changeBus := bus.New()
	s := NewMemory(changeBus)

	var events []string
	unsubscribe := changeBus.Subscribe([]string{KeyTrips}, func(key string) {
		events = append(events, key)
	})
	defer unsubscribe()

	if err := s.Write(context.Background(), KeyTrips, []byte("[]")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Write(context.Background(), KeyUsers, []byte("[]")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete(context.Background(), KeyTrips); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// initial wildcard, then the two trips events; the users write is not
	// in the key set
	if len(events) != 3 || events[0] != bus.Wildcard || events[1] != KeyTrips || events[2] != KeyTrips {
		t.Fatalf("unexpected event sequence: %v", events)
	}

	if raw, err := s.Read(context.Background(), KeyTrips); err != nil || raw != nil {
		t.Fatalf("deleted key should read as absent, got %q err %v", raw, err)
	}
}

func TestMemoryReadReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewMemory(nil)
	if err := s.Write(context.Background(), KeyUsers, []byte("abc")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := s.Read(context.Background(), KeyUsers)
	first[0] = 'z'

	second, _ := s.Read(context.Background(), KeyUsers)
	if string(second) != "abc" {
		t.Fatalf("mutating a read buffer must not affect the store, got %q", second)
	}
}
