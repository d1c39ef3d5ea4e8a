package domain

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RelayService is the entry point used by the transport adapters.
type RelayService struct {
	store     *MessageStore
	feed      *Feed
	publisher *Publisher
}

func NewRelayService(store *MessageStore, feed *Feed, announcer Announcer) *RelayService {
	return &RelayService{
		store:     store,
		feed:      feed,
		publisher: NewPublisher(store, feed, announcer),
	}
}

func (s *RelayService) Publish(ctx context.Context, text string, user string) (Message, error) {
	message, err := s.publisher.Publish(ctx, text, user)
	if err != nil {
		return Message{}, fmt.Errorf("publisher.Publish: %w", err)
	}

	return message, nil
}

func (s *RelayService) History(ctx context.Context, afterID uint64) ([]Message, error) {
	messages, err := s.store.ListFrom(ctx, afterID)
	if err != nil {
		return nil, fmt.Errorf("store.ListFrom: %w", err)
	}

	return messages, nil
}

func (s *RelayService) Subscribe(ctx context.Context, afterID uint64) (*Subscription, error) {
	sub, err := s.feed.SubscribeFrom(ctx, afterID)
	if err != nil {
		return nil, fmt.Errorf("feed.SubscribeFrom: %w", err)
	}

	return sub, nil
}

func (s *RelayService) Unsubscribe(id uuid.UUID) error {
	if err := s.feed.Unsubscribe(id); err != nil {
		return fmt.Errorf("feed.Unsubscribe: %w", err)
	}

	return nil
}

func (s *RelayService) Listeners() int {
	return s.feed.Listeners()
}

// Close detaches every listener; the store stays readable.
func (s *RelayService) Close() {
	s.feed.Close()
}
