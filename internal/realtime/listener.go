package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Channel is the pg_notify channel the applications trigger emits on.
	Channel string `mapstructure:"channel"`
}

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	listenerPingInterval = 90 * time.Second
)

// SubscriptionError means the change-notification channel could not be
// established. The server keeps serving reads; clients fall back to
// manual refresh.
type SubscriptionError struct {
	Channel string
	Err     error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscribe to %s: %v", e.Channel, e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }

// Listener bridges Postgres row-change notifications to the hub. One
// listener per process; the subscription is acquired in Start and
// released on every exit path when the context is cancelled.
type Listener struct {
	channel string
	conn    *pq.Listener
	hub     *Hub
}

func NewListener(databaseURL string, config Config, hub *Hub) *Listener {
	channel := config.Channel
	if channel == "" {
		channel = "applications_changes"
	}
	conn := pq.NewListener(databaseURL, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error().Err(err).Msg("[Realtime] Listener connection event")
		}
	})
	return &Listener{
		channel: channel,
		conn:    conn,
		hub:     hub,
	}
}

// Start subscribes to the change channel and blocks dispatching
// notifications until ctx is cancelled. The subscription is torn down
// unconditionally on return.
func (l *Listener) Start(ctx context.Context) error {
	if err := l.conn.Listen(l.channel); err != nil {
		l.conn.Close()
		return &SubscriptionError{Channel: l.channel, Err: err}
	}

	log.Info().Str("channel", l.channel).Msg("[Realtime] Subscribed to change notifications")

	defer func() {
		l.conn.Unlisten(l.channel)
		l.conn.Close()
		log.Info().Str("channel", l.channel).Msg("[Realtime] Subscription released")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case notification := <-l.conn.Notify:
			if notification == nil {
				// Connection was re-established; nothing to dispatch.
				continue
			}
			l.dispatch(notification.Extra)

		case <-time.After(listenerPingInterval):
			if err := l.conn.Ping(); err != nil {
				log.Error().Err(err).Msg("[Realtime] Listener ping failed")
			}
		}
	}
}

// dispatch decodes one trigger payload and forwards it to the hub.
// Inserts and deletes are published; updates are a deliberate no-op,
// there is no in-place edit surface to refresh for.
func (l *Listener) dispatch(payload string) {
	var notify NotifyPayload
	if err := json.Unmarshal([]byte(payload), &notify); err != nil {
		log.Error().Err(err).Msg("[Realtime] Failed to decode notification payload")
		return
	}

	switch notify.Action {
	case ActionInsert, ActionDelete:
		row := notify.Row
		l.hub.PublishChange(&ChangeMessage{
			Type:        MessageTypeChange,
			Action:      notify.Action,
			Application: &row,
		})

	case ActionUpdate:
		// no-op

	default:
		log.Debug().
			Str("action", string(notify.Action)).
			Msg("[Realtime] Unknown change action")
	}
}
