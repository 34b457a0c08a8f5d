// Package bus propagates "this key changed" events between the collection
// store and its consumers, in-process and (through the relay) across
// processes sharing the same store.
package bus

import (
	"context"
	"sync"
)

// Wildcard is published when any key may have changed, for example when a
// relay (re)connects and the local view could be stale. Subscribers receive
// it regardless of their key set.
const Wildcard = "*"

// Handler receives the changed key, or Wildcard.
type Handler func(key string)

// Bus is the subscribe side plus the publish side of change propagation.
type Bus interface {
	Publish(ctx context.Context, key string)
	Subscribe(keys []string, handler Handler) (unsubscribe func())
}

type subscriber struct {
	keys    map[string]struct{}
	handler Handler
}

// ChangeBus is the in-process implementation. Delivery is synchronous and
// in call order; handlers run outside the registry lock so they may publish
// or subscribe themselves.
type ChangeBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

// New returns an empty in-process bus.
func New() *ChangeBus {
	return &ChangeBus{subs: make(map[int]*subscriber)}
}

// Publish delivers key to every subscriber whose set contains it. The
// Wildcard key reaches every subscriber.
func (b *ChangeBus) Publish(_ context.Context, key string) {
	if key == "" {
		return
	}

	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, sub := range b.subs {
		if key == Wildcard {
			handlers = append(handlers, sub.handler)
			continue
		}
		if _, ok := sub.keys[key]; ok {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(key)
	}
}

// Subscribe registers handler for the given keys and invokes it once
// immediately with Wildcard, so subscribers never need a separate initial
// fetch. The returned function removes the subscription; calling it twice
// is safe.
func (b *ChangeBus) Subscribe(keys []string, handler Handler) func() {
	if handler == nil {
		return func() {}
	}

	keySet := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key != "" {
			keySet[key] = struct{}{}
		}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = &subscriber{keys: keySet, handler: handler}
	b.mu.Unlock()

	// Initial load signal.
	handler(Wildcard)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}
