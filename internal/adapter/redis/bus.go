package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const changeChannelPrefix = "changes:"

// ChangeBus publishes change events on per-type Pub/Sub channels
// (changes:{type}) and lets other instances subscribe to them.
type ChangeBus struct {
	client *goredis.Client
	log    *slog.Logger
}

// NewChangeBus creates a ChangeBus.
func NewChangeBus(client *goredis.Client, log *slog.Logger) *ChangeBus {
	return &ChangeBus{client: client, log: log.With("component", "change_bus")}
}

// Notify publishes ev.
func (b *ChangeBus) Notify(ctx context.Context, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := b.client.Publish(ctx, changeChannel(ev.Type), payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Subscribe calls fn for every event published by any instance until ctx is
// cancelled. It returns once the subscription is confirmed by Redis via
// ready, so callers can rely on not missing later events.
func (b *ChangeBus) Subscribe(ctx context.Context, ready chan<- struct{}, fn func(domain.ChangeEvent)) error {
	ps := b.client.PSubscribe(ctx, changeChannelPrefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe changes: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.WarnContext(ctx, "drop malformed change event",
					slog.String("channel", msg.Channel),
					slog.String("error", err.Error()),
				)
				continue
			}
			if ev.Type == "" {
				ev.Type = domain.EntityType(strings.TrimPrefix(msg.Channel, changeChannelPrefix))
			}
			fn(ev)
		}
	}
}

func changeChannel(t domain.EntityType) string {
	return changeChannelPrefix + t.String()
}
