package domain_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthurdotwork/relay/internal/adapters/secondary/store"
	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/arthurdotwork/relay/internal/domain/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMessageStore_Append(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository := mocks.NewMockRepository(t)
	messageStore := domain.NewMessageStore(repository, domain.WithClock(fixedClock))

	t.Run("it should reject an empty text without touching the repository", func(t *testing.T) {
		_, err := messageStore.Append(ctx, "   \n\t", "alice")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("it should return a store unavailable error if the repository fails", func(t *testing.T) {
		repository.On("Append", ctx, mock.Anything).Return(domain.Message{}, fmt.Errorf("error")).Once()

		_, err := messageStore.Append(ctx, "hello", "alice")
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("it should trim the text and stamp the draft", func(t *testing.T) {
		draft := domain.Message{Text: "hello", User: "alice", Timestamp: fixedNow}
		stored := draft
		stored.ID = 7

		repository.On("Append", ctx, draft).Return(stored, nil).Once()

		message, err := messageStore.Append(ctx, "  hello  ", " alice ")
		require.NoError(t, err)
		require.Equal(t, stored, message)
	})

	t.Run("it should store the default user when none is supplied", func(t *testing.T) {
		draft := domain.Message{Text: "hi", User: domain.DefaultUser, Timestamp: fixedNow}
		repository.On("Append", ctx, draft).Return(draft, nil).Once()

		message, err := messageStore.Append(ctx, "hi", "")
		require.NoError(t, err)
		require.Equal(t, domain.DefaultUser, message.User)
	})
}

func TestMessageStore_ListFrom(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository := mocks.NewMockRepository(t)
	messageStore := domain.NewMessageStore(repository)

	t.Run("it should return a store unavailable error if the repository fails", func(t *testing.T) {
		repository.On("ListFrom", ctx, uint64(0)).Return(nil, fmt.Errorf("error")).Once()

		_, err := messageStore.ListFrom(ctx, 0)
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("it should return the messages of the repository", func(t *testing.T) {
		messages := []domain.Message{{ID: 3, Text: "c", User: "bob"}}
		repository.On("ListFrom", ctx, uint64(2)).Return(messages, nil).Once()

		got, err := messageStore.ListFrom(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, messages, got)
	})
}

func TestMessageStore_Log(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("it should assign strictly increasing identifiers", func(t *testing.T) {
		messageStore := domain.NewMessageStore(store.NewMemoryLog())

		var last uint64
		for i := 0; i < 20; i++ {
			message, err := messageStore.Append(ctx, fmt.Sprintf("message %d", i), "alice")
			require.NoError(t, err)
			require.Greater(t, message.ID, last)
			last = message.ID
		}
	})

	t.Run("it should list every message in append order", func(t *testing.T) {
		messageStore := domain.NewMessageStore(store.NewMemoryLog())

		for i := 0; i < 5; i++ {
			_, err := messageStore.Append(ctx, fmt.Sprintf("message %d", i), "alice")
			require.NoError(t, err)
		}

		messages, err := messageStore.ListFrom(ctx, 0)
		require.NoError(t, err)
		require.Len(t, messages, 5)
		for i, message := range messages {
			require.Equal(t, uint64(i+1), message.ID)
			require.Equal(t, fmt.Sprintf("message %d", i), message.Text)
		}
	})

	t.Run("it should not consume an identifier on a rejected append", func(t *testing.T) {
		messageStore := domain.NewMessageStore(store.NewMemoryLog())

		_, err := messageStore.Append(ctx, "first", "alice")
		require.NoError(t, err)

		_, err = messageStore.Append(ctx, "  ", "alice")
		require.ErrorIs(t, err, domain.ErrValidation)

		messages, err := messageStore.ListFrom(ctx, 0)
		require.NoError(t, err)
		require.Len(t, messages, 1)

		message, err := messageStore.Append(ctx, "second", "alice")
		require.NoError(t, err)
		require.Equal(t, uint64(2), message.ID)
	})

	t.Run("it should use the configured default user", func(t *testing.T) {
		messageStore := domain.NewMessageStore(store.NewMemoryLog(), domain.WithDefaultUser("guest"))
		require.Equal(t, "guest", messageStore.DefaultUser())

		message, err := messageStore.Append(ctx, "hello", "")
		require.NoError(t, err)
		require.Equal(t, "guest", message.User)
	})
}
