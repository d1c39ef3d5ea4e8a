package domain

import (
	"context"
	"fmt"
	"log/slog"
)

type Publisher struct {
	store     *MessageStore
	notifier  Notifier
	announcer Announcer
}

// NewPublisher wires the store to the local feed. announcer may be nil when
// the relay runs as a single instance.
func NewPublisher(store *MessageStore, notifier Notifier, announcer Announcer) *Publisher {
	return &Publisher{
		store:     store,
		notifier:  notifier,
		announcer: announcer,
	}
}

func (p *Publisher) Publish(ctx context.Context, text string, user string) (Message, error) {
	message, err := p.store.Append(ctx, text, user)
	if err != nil {
		return Message{}, fmt.Errorf("store.Append: %w", err)
	}

	p.notifier.Notify()

	if p.announcer != nil {
		if err := p.announcer.Announce(ctx, message); err != nil {
			slog.ErrorContext(ctx, "error announcing message", "id", message.ID, "error", err)
		}
	}

	return message, nil
}
