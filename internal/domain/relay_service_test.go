package domain_test

import (
	"context"
	"testing"

	"github.com/arthurdotwork/relay/internal/adapters/secondary/store"
	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestRelayService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	messageStore := domain.NewMessageStore(store.NewMemoryLog(), domain.WithClock(fixedClock))
	feed := domain.NewFeed(messageStore)
	relayService := domain.NewRelayService(messageStore, feed, nil)
	t.Cleanup(relayService.Close)

	t.Run("it should relay the opening conversation", func(t *testing.T) {
		hello, err := relayService.Publish(ctx, "hello", "alice")
		require.NoError(t, err)
		require.Equal(t, domain.Message{ID: 1, Text: "hello", User: "alice", Timestamp: fixedNow}, hello)

		hi, err := relayService.Publish(ctx, "hi", "")
		require.NoError(t, err)
		require.Equal(t, domain.Message{ID: 2, Text: "hi", User: domain.DefaultUser, Timestamp: fixedNow}, hi)

		history, err := relayService.History(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, []domain.Message{hello, hi}, history)

		sub, err := relayService.Subscribe(ctx, 0)
		require.NoError(t, err)

		require.Equal(t, hello, receive(t, sub))
		require.Equal(t, hi, receive(t, sub))

		later, err := relayService.Publish(ctx, "later", "bob")
		require.NoError(t, err)
		require.Equal(t, later, receive(t, sub))

		require.Equal(t, 1, relayService.Listeners())
		require.NoError(t, relayService.Unsubscribe(sub.ID()))
		require.Equal(t, 0, relayService.Listeners())
	})

	t.Run("it should return only the messages after the given identifier", func(t *testing.T) {
		history, err := relayService.History(ctx, 2)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.Equal(t, "later", history[0].Text)
	})

	t.Run("it should refuse subscriptions once closed", func(t *testing.T) {
		relayService.Close()

		_, err := relayService.Subscribe(ctx, 0)
		require.ErrorIs(t, err, domain.ErrFeedClosed)
	})
}
