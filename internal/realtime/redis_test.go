package realtime

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/retry"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "barberbook:appointments:barber:42", Channel(42))
}

func TestRedisNotifier_ListenRestartsRelay(t *testing.T) {
	n := NewRedisNotifier(nil, NewHub(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	run := func(ctx context.Context) error {
		switch calls.Add(1) {
		case 1:
			return errors.New("psubscribe: connection reset")
		case 2:
			return nil
		}
		cancel()
		<-ctx.Done()
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		n.listen(ctx, retry.Policy{MaxAttempts: 1, Initial: time.Millisecond, Max: time.Millisecond}, run)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listen did not stop")
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestRedisNotifier_PublishFallsBackToHub(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	hub := NewHub()
	defer hub.Close()
	n := NewRedisNotifier(client, hub, zap.NewNop())

	ch, stop := n.Subscribe(5)
	defer stop()

	require.NoError(t, n.Publish(context.Background(), Event{BarberID: 5, Kind: KindCancelled}))
	select {
	case ev := <-ch:
		assert.Equal(t, KindCancelled, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("event not delivered locally")
	}
}

// Requires a running Redis, e.g. BARBERBOOK_TEST_REDIS_URL=redis://localhost:6379/0.
func TestRedisNotifier_DeliversLocallyWhileRelayDown(t *testing.T) {
	url := os.Getenv("BARBERBOOK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BARBERBOOK_TEST_REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	n := NewRedisNotifier(client, NewHub(), zap.NewNop())
	require.False(t, n.Relaying())

	ch, stop := n.Subscribe(78)
	defer stop()

	require.NoError(t, n.Publish(ctx, Event{BarberID: 78, AppointmentID: 4, Kind: KindBooked}))
	select {
	case ev := <-ch:
		assert.Equal(t, uint(4), ev.AppointmentID)
	case <-ctx.Done():
		t.Fatal("event lost while relay was down")
	}
}

// Requires a running Redis, e.g. BARBERBOOK_TEST_REDIS_URL=redis://localhost:6379/0.
func TestRedisNotifier_RelaysAcrossInstances(t *testing.T) {
	url := os.Getenv("BARBERBOOK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BARBERBOOK_TEST_REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	newInstance := func() *RedisNotifier {
		client, err := Dial(ctx, url)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		n := NewRedisNotifier(client, NewHub(), zap.NewNop())
		go func() { _ = n.Run(ctx) }()
		return n
	}

	sender := newInstance()
	receiver := newInstance()

	ch, stop := receiver.Subscribe(77)
	defer stop()

	// PSubscribe is confirmed asynchronously in Run; retry until it lands.
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, sender.Publish(ctx, Event{BarberID: 77, AppointmentID: 3, Kind: KindBooked, At: time.Now()}))
		select {
		case ev := <-ch:
			assert.Equal(t, uint(3), ev.AppointmentID)
			assert.Equal(t, KindBooked, ev.Kind)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("event not relayed")
		}
	}
}
