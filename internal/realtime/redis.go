package realtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/retry"
)

const channelPrefix = "barberbook:appointments:barber:"

func Channel(barberID uint) string {
	return fmt.Sprintf("%s%d", channelPrefix, barberID)
}

// Dial connects to redisURL and pings it.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisNotifier shares events between API instances. Publish goes through
// Redis; Run relays every instance's events into the local hub, which
// serves subscriptions.
type RedisNotifier struct {
	client *redis.Client
	hub    *Hub
	log    *zap.Logger

	// relaying is set while Run holds a confirmed subscription.
	relaying atomic.Bool
}

var errRelayClosed = errors.New("redis subscription closed")

var _ Notifier = (*RedisNotifier)(nil)

func NewRedisNotifier(client *redis.Client, hub *Hub, log *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, hub: hub, log: log.Named("realtime")}
}

func (n *RedisNotifier) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := n.client.Publish(ctx, Channel(ev.BarberID), payload).Err(); err != nil {
		// Local observers still get it.
		n.log.Warn("redis publish failed, delivering locally",
			zap.Uint("barber_id", ev.BarberID),
			zap.Error(err),
		)
		n.hub.deliver(ev)
		return nil
	}

	// Nothing relays Redis back to this instance right now.
	if !n.relaying.Load() {
		n.hub.deliver(ev)
	}
	return nil
}

// Relaying reports whether events from Redis currently reach the hub.
func (n *RedisNotifier) Relaying() bool {
	return n.relaying.Load()
}

func (n *RedisNotifier) Subscribe(barberID uint) (<-chan Event, func()) {
	return n.hub.Subscribe(barberID)
}

// Run relays Redis messages into the hub until ctx is done.
func (n *RedisNotifier) Run(ctx context.Context) error {
	ps := n.client.PSubscribe(ctx, channelPrefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("psubscribe: %w", err)
	}
	n.relaying.Store(true)
	defer n.relaying.Store(false)
	n.log.Info("relaying appointment events", zap.String("pattern", channelPrefix+"*"))

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errRelayClosed
			}
			n.relay(msg)
		}
	}
}

// Listen keeps Run going until ctx is done, restarting it with backoff
// whenever the subscription fails or closes.
func (n *RedisNotifier) Listen(ctx context.Context, p retry.Policy) {
	n.listen(ctx, p, n.Run)
}

func (n *RedisNotifier) listen(ctx context.Context, p retry.Policy, run func(context.Context) error) {
	for ctx.Err() == nil {
		_, err := retry.Do(ctx, p, func() (struct{}, error) {
			err := run(ctx)
			if ctx.Err() != nil {
				return struct{}{}, retry.Permanent(ctx.Err())
			}
			if err == nil {
				err = errRelayClosed
			}
			n.log.Warn("redis relay stopped, restarting", zap.Error(err))
			return struct{}{}, err
		})
		if err == nil || ctx.Err() != nil {
			continue
		}
		n.log.Error("redis relay keeps failing", zap.Error(err))

		select {
		case <-ctx.Done():
		case <-time.After(p.Max):
		}
	}
}

func (n *RedisNotifier) relay(msg *redis.Message) {
	var ev Event
	if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
		n.log.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
		return
	}
	if ev.BarberID == 0 || !strings.HasSuffix(msg.Channel, fmt.Sprintf(":%d", ev.BarberID)) {
		n.log.Warn("dropping event with mismatched barber", zap.String("channel", msg.Channel))
		return
	}
	n.hub.deliver(ev)
}
