package domain

import (
	"context"
)

type Repository interface {
	// Append stores draft under the next identifier and returns the stored message.
	Append(ctx context.Context, draft Message) (Message, error)
	ListFrom(ctx context.Context, afterID uint64) ([]Message, error)
	Close() error
}

type Lister interface {
	ListFrom(ctx context.Context, afterID uint64) ([]Message, error)
}

type Notifier interface {
	Notify()
}

type Announcer interface {
	Announce(ctx context.Context, message Message) error
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
}
