package bus

import (
	"context"
	"testing"
)

func TestSubscribeFiresWildcardImmediately(t *testing.T) {
	t.Parallel()

	b := New()
	var events []string
	b.Subscribe([]string{"allUsers"}, func(key string) {
		events = append(events, key)
	})

	if len(events) != 1 || events[0] != Wildcard {
		t.Fatalf("expected initial wildcard delivery, got %v", events)
	}
}

func TestPublishRoutesByKey(t *testing.T) {
	t.Parallel()

	b := New()
	var users, trips []string
	b.Subscribe([]string{"allUsers"}, func(key string) { users = append(users, key) })
	b.Subscribe([]string{"allTrips"}, func(key string) { trips = append(trips, key) })

	b.Publish(context.Background(), "allUsers")
	b.Publish(context.Background(), "allTrips")
	b.Publish(context.Background(), "allTrips")

	if len(users) != 2 {
		t.Fatalf("users subscriber expected wildcard + 1 event, got %v", users)
	}
	if len(trips) != 3 {
		t.Fatalf("trips subscriber expected wildcard + 2 events, got %v", trips)
	}
}

func TestWildcardReachesEverySubscriber(t *testing.T) {
	t.Parallel()

	b := New()
	count := 0
	b.Subscribe([]string{"allUsers"}, func(string) { count++ })
	b.Subscribe([]string{"allTrips"}, func(string) { count++ })

	b.Publish(context.Background(), Wildcard)
	if count != 4 {
		t.Fatalf("expected 2 initial + 2 wildcard deliveries, got %d", count)
	}
}

func TestUnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	t.Parallel()

	b := New()
	count := 0
	unsubscribe := b.Subscribe([]string{"allUsers"}, func(string) { count++ })

	unsubscribe()
	unsubscribe()
	b.Publish(context.Background(), "allUsers")

	if count != 1 {
		t.Fatalf("expected only the initial delivery, got %d", count)
	}
}

func TestPublishIgnoresEmptyKey(t *testing.T) {
	t.Parallel()

	b := New()
	count := 0
	b.Subscribe([]string{"allUsers"}, func(string) { count++ })

	b.Publish(context.Background(), "")
	if count != 1 {
		t.Fatalf("empty key must not be delivered, got %d deliveries", count)
	}
}
