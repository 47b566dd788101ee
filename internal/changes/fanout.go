// Package changes delivers record change events to their sinks.
package changes

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// Sink receives change events.
type Sink interface {
	Notify(ctx context.Context, ev domain.ChangeEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev domain.ChangeEvent) error

func (f SinkFunc) Notify(ctx context.Context, ev domain.ChangeEvent) error { return f(ctx, ev) }

// Fanout delivers every event to all sinks. Delivery is fire-and-forget:
// a failing sink is logged and does not affect the others or the caller.
type Fanout struct {
	sinks []Sink
	log   *slog.Logger
}

// NewFanout creates a Fanout. Nil sinks are skipped.
func NewFanout(log *slog.Logger, sinks ...Sink) *Fanout {
	f := &Fanout{log: log.With("component", "changes")}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Add registers another sink.
func (f *Fanout) Add(s Sink) {
	if s != nil {
		f.sinks = append(f.sinks, s)
	}
}

// Publish delivers ev to every sink.
func (f *Fanout) Publish(ctx context.Context, ev domain.ChangeEvent) {
	for _, s := range f.sinks {
		if err := s.Notify(ctx, ev); err != nil {
			f.log.WarnContext(ctx, "change sink failed",
				slog.String("type", ev.Type.String()),
				slog.String("kind", ev.Kind.String()),
				slog.String("code", ev.Code),
				slog.String("error", err.Error()),
			)
		}
	}
}
