package redis_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	subscriber "github.com/arthurdotwork/relay/internal/adapters/primary/redis"
	"github.com/arthurdotwork/relay/internal/adapters/secondary/broadcaster"
	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/arthurdotwork/relay/internal/infrastructure/redis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type notifier struct {
	calls atomic.Int64
}

func (n *notifier) Notify() {
	n.calls.Add(1)
}

func TestSubscriber_Subscribe(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(addr)
	t.Cleanup(func() {
		_ = client.Close()
	})

	t.Run("it should wake the feed for every announced message", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		channel := "relay-test:" + uuid.NewString()
		n := &notifier{}

		errCh := make(chan error, 1)
		go func() {
			errCh <- subscriber.NewSubscriber(client, n).Subscribe(ctx, channel)
		}()

		announcer := broadcaster.NewBroadcaster(client, channel)
		require.Eventually(t, func() bool {
			_ = announcer.Announce(ctx, domain.Message{ID: 1, Text: "hello", User: "alice", Timestamp: time.Now()})
			return n.calls.Load() > 0
		}, 2*time.Second, 50*time.Millisecond)

		cancel()
		require.NoError(t, <-errCh)
	})

	t.Run("it should ignore malformed announcements", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		channel := "relay-test:" + uuid.NewString()
		n := &notifier{}

		errCh := make(chan error, 1)
		go func() {
			errCh <- subscriber.NewSubscriber(client, n).Subscribe(ctx, channel)
		}()

		require.Eventually(t, func() bool {
			return client.Client.Publish(ctx, channel, "not json").Val() > 0
		}, 2*time.Second, 50*time.Millisecond)

		announcer := broadcaster.NewBroadcaster(client, channel)
		require.NoError(t, announcer.Announce(ctx, domain.Message{ID: 2, Text: "valid", Timestamp: time.Now()}))

		require.Eventually(t, func() bool {
			return n.calls.Load() == 1
		}, 2*time.Second, 10*time.Millisecond)

		cancel()
		require.NoError(t, <-errCh)
	})
}
