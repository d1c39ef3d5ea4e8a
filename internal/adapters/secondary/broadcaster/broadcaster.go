package broadcaster

import (
	"context"
	"fmt"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/arthurdotwork/relay/internal/infrastructure/redis"
)

// Broadcaster tells the other relay instances sharing the Redis log that a
// message was appended.
type Broadcaster struct {
	redisClient *redis.Client
	channel     string
}

func NewBroadcaster(redisClient *redis.Client, channel string) *Broadcaster {
	return &Broadcaster{redisClient: redisClient, channel: channel}
}

func (b *Broadcaster) Announce(ctx context.Context, message domain.Message) error {
	if err := b.redisClient.Publish(ctx, b.channel, message); err != nil {
		return fmt.Errorf("redisClient.Publish: %w", err)
	}

	return nil
}
