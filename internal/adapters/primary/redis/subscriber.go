package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/arthurdotwork/relay/internal/infrastructure/redis"
)

type Notifier interface {
	Notify()
}

// Subscriber wakes the local feed when any instance appends to the shared log.
// Listeners read the log from their own cursor, so a wake-up for a message
// they already hold is harmless.
type Subscriber struct {
	redisClient *redis.Client
	notifier    Notifier
}

func NewSubscriber(redisClient *redis.Client, notifier Notifier) *Subscriber {
	return &Subscriber{
		redisClient: redisClient,
		notifier:    notifier,
	}
}

func (s *Subscriber) Subscribe(ctx context.Context, channel string) error {
	subscriber := s.redisClient.Subscribe(ctx, channel)

	if err := subscriber(func(msg redis.Message) error {
		var m domain.Message
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			slog.WarnContext(ctx, "ignoring malformed announcement", "channel", channel, "error", err)
			return nil
		}

		slog.DebugContext(ctx, "remote append announced", "id", m.ID)
		s.notifier.Notify()

		return nil
	}); err != nil {
		if ctx.Err() != nil {
			return nil
		}

		slog.ErrorContext(ctx, "error subscribing to redis", "error", err)
		return fmt.Errorf("subscriber: %w", err)
	}

	return nil
}
