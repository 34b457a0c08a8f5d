package bus

import (
	"context"
	"strings"

	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/google/uuid"
)

// Transport carries relay frames between contexts over a named channel.
// *redis.Client from pkg/redis satisfies it.
type Transport interface {
	Publish(ctx context.Context, channel, payload string) error
	Subscribe(ctx context.Context, channel string) (messages <-chan string, close func() error)
}

// Relay extends an in-process bus across processes through a pub/sub
// channel. It decorates the inner bus: local publishes are forwarded to the
// channel, remote messages are re-published locally. Messages carry an
// origin id so a relay drops its own echoes; duplicates that slip through
// are covered by the at-least-once contract.
type Relay struct {
	inner     *ChangeBus
	transport Transport
	channel   string
	origin    string
	logg      *logger.Logger
}

// NewRelay wraps inner. Callers must hand the relay, not the inner bus, to
// every component so no publish bypasses the channel.
func NewRelay(inner *ChangeBus, transport Transport, channel string, logg *logger.Logger) *Relay {
	return &Relay{
		inner:     inner,
		transport: transport,
		channel:   channel,
		origin:    uuid.NewString(),
		logg:      logg,
	}
}

// Publish delivers locally and forwards to the shared channel. A channel
// failure never fails the publish; other contexts will catch up on their
// next wildcard.
func (r *Relay) Publish(ctx context.Context, key string) {
	r.inner.Publish(ctx, key)
	if err := r.transport.Publish(ctx, r.channel, r.origin+" "+key); err != nil && r.logg != nil {
		r.logg.Warn(ctx, "change relay publish failed: "+err.Error())
	}
}

// Subscribe delegates to the inner bus.
func (r *Relay) Subscribe(keys []string, handler Handler) func() {
	return r.inner.Subscribe(keys, handler)
}

// Run pumps remote messages into the local bus until ctx is done. On every
// (re)subscription it publishes the wildcard locally, since state may have
// changed while this context was not listening.
func (r *Relay) Run(ctx context.Context) {
	messages, closeSub := r.transport.Subscribe(ctx, r.channel)
	defer closeSub()

	r.inner.Publish(ctx, Wildcard)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			origin, key, found := strings.Cut(msg, " ")
			if !found || origin == r.origin || key == "" {
				continue
			}
			r.inner.Publish(ctx, key)
		}
	}
}
