package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-dashboard/internal/events"
	"github.com/spec-kit/triage-dashboard/internal/persistence"
)

// ChangeNotification is the wire envelope pushed to dashboards. The event
// name is fixed: from the client's perspective every change means the same
// thing, re-fetch.
type ChangeNotification struct {
	Event    string           `json:"event"`
	Type     events.EventType `json:"type"`
	TicketID string           `json:"ticket_id"`
	Payload  interface{}      `json:"payload,omitempty"`
}

// Bridge relays dispatcher events through redis pub/sub into the hub.
type Bridge struct {
	redis   *persistence.Redis
	hub     *Hub
	channel string
	logger  *zap.Logger
}

// NewBridge constructs the bridge.
func NewBridge(redis *persistence.Redis, hub *Hub, channel string, logger *zap.Logger) *Bridge {
	return &Bridge{redis: redis, hub: hub, channel: channel, logger: logger}
}

// Register subscribes the bridge to every dispatcher event.
func (b *Bridge) Register(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventAny, b.relay)
}

// Listen consumes the redis channel and broadcasts each message to the hub.
// Blocks until ctx is cancelled; run it on its own goroutine. Without redis
// the hub still works single-instance because relay falls back to a direct
// broadcast.
func (b *Bridge) Listen(ctx context.Context) {
	if b.redis == nil || b.redis.Client == nil {
		return
	}
	sub := b.redis.Client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.hub.Broadcast([]byte(msg.Payload))
		}
	}
}

func (b *Bridge) relay(ctx context.Context, event events.Event) error {
	notification := ChangeNotification{
		Event:    "ticket_updated",
		Type:     event.Type,
		TicketID: event.TicketID,
		Payload:  event.Payload,
	}
	raw, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	if b.redis == nil || b.redis.Client == nil {
		b.hub.Broadcast(raw)
		return nil
	}
	if err := b.redis.Client.Publish(ctx, b.channel, raw).Err(); err != nil {
		b.logger.Warn("publish change notification failed; broadcasting locally", zap.Error(err))
		b.hub.Broadcast(raw)
	}
	return nil
}
