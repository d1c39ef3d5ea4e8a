package domain_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/arthurdotwork/relay/internal/domain/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository := mocks.NewMockRepository(t)
	announcer := mocks.NewMockAnnouncer(t)
	notifier := &countingNotifier{}

	messageStore := domain.NewMessageStore(repository, domain.WithClock(fixedClock))
	publisher := domain.NewPublisher(messageStore, notifier, announcer)

	draft := domain.Message{Text: "hello", User: "alice", Timestamp: fixedNow}
	stored := domain.Message{ID: 1, Text: "hello", User: "alice", Timestamp: fixedNow}

	t.Run("it should not notify listeners if the append fails", func(t *testing.T) {
		repository.On("Append", ctx, draft).Return(domain.Message{}, fmt.Errorf("error")).Once()

		_, err := publisher.Publish(ctx, "hello", "alice")
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
		require.Equal(t, 0, notifier.calls)
	})

	t.Run("it should not notify listeners for an invalid message", func(t *testing.T) {
		_, err := publisher.Publish(ctx, "", "alice")
		require.ErrorIs(t, err, domain.ErrValidation)
		require.Equal(t, 0, notifier.calls)
	})

	t.Run("it should publish even if the announcement fails", func(t *testing.T) {
		repository.On("Append", ctx, draft).Return(stored, nil).Once()
		announcer.On("Announce", ctx, stored).Return(fmt.Errorf("error")).Once()

		message, err := publisher.Publish(ctx, "hello", "alice")
		require.NoError(t, err)
		require.Equal(t, stored, message)
		require.Equal(t, 1, notifier.calls)
	})

	t.Run("it should notify and announce the stored message", func(t *testing.T) {
		repository.On("Append", ctx, draft).Return(stored, nil).Once()
		announcer.On("Announce", ctx, mock.MatchedBy(func(m domain.Message) bool {
			return m.ID == stored.ID
		})).Return(nil).Once()

		message, err := publisher.Publish(ctx, "hello", "alice")
		require.NoError(t, err)
		require.Equal(t, stored, message)
		require.Equal(t, 2, notifier.calls)
	})
}

func TestPublisher_WithoutAnnouncer(t *testing.T) {
	t.Parallel()

	repository := mocks.NewMockRepository(t)
	notifier := &countingNotifier{}
	publisher := domain.NewPublisher(domain.NewMessageStore(repository), notifier, nil)

	repository.On("Append", mock.Anything, mock.Anything).Return(domain.Message{ID: 1, Text: "hello"}, nil).Once()

	_, err := publisher.Publish(context.Background(), "hello", "")
	require.NoError(t, err)
	require.Equal(t, 1, notifier.calls)
}
