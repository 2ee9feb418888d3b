// Package service implements the ledger's business operations on top of a
// storage.Store. Every method takes the authenticated user's ID and enforces
// access rules before touching storage.
package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/ledger/internal/clock"
	"github.com/mmynk/ledger/internal/events"
)

// Option configures a service.
type Option func(*options)

type options struct {
	clock     clock.Clock
	publisher events.Publisher
}

// WithClock overrides the time source. Defaults to clock.Real.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithPublisher sets the event sink. Defaults to events.Nop.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

func buildOptions(opts []Option) options {
	o := options{clock: clock.Real{}, publisher: events.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publish sends e and logs, but does not return, any failure.
func publish(ctx context.Context, p events.Publisher, e events.Event) {
	if err := p.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "Failed to publish event",
			"type", e.Type,
			"group_id", e.GroupID,
			"error", err,
		)
	}
}
