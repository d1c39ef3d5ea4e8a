package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type StoreOption func(*MessageStore)

func WithDefaultUser(user string) StoreOption {
	return func(s *MessageStore) {
		if strings.TrimSpace(user) != "" {
			s.defaultUser = strings.TrimSpace(user)
		}
	}
}

func WithClock(clock func() time.Time) StoreOption {
	return func(s *MessageStore) {
		s.clock = clock
	}
}

// MessageStore is the append-only log. Appends are serialized, reads go
// straight to the repository which guarantees a consistent prefix.
type MessageStore struct {
	repository  Repository
	defaultUser string
	clock       func() time.Time

	mu sync.Mutex
}

func NewMessageStore(repository Repository, opts ...StoreOption) *MessageStore {
	s := &MessageStore{
		repository:  repository,
		defaultUser: DefaultUser,
		clock:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MessageStore) DefaultUser() string {
	return s.defaultUser
}

func (s *MessageStore) Append(ctx context.Context, text string, user string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, fmt.Errorf("%w: message text is empty", ErrValidation)
	}

	user = strings.TrimSpace(user)
	if user == "" {
		user = s.defaultUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := Message{
		Text:      text,
		User:      user,
		Timestamp: s.clock().UTC(),
	}

	message, err := s.repository.Append(ctx, draft)
	if err != nil {
		slog.ErrorContext(ctx, "error appending message", "error", err)
		return Message{}, fmt.Errorf("repository.Append: %w: %w", ErrStoreUnavailable, err)
	}

	slog.DebugContext(ctx, "message appended", "id", message.ID, "user", message.User)

	return message, nil
}

func (s *MessageStore) ListFrom(ctx context.Context, afterID uint64) ([]Message, error) {
	messages, err := s.repository.ListFrom(ctx, afterID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListFrom: %w: %w", ErrStoreUnavailable, err)
	}

	return messages, nil
}
