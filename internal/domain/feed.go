package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultFeedBufferSize    = 64
	defaultFeedRetryInterval = time.Second
)

type FeedOption func(*Feed)

func WithBufferSize(size int) FeedOption {
	return func(f *Feed) {
		if size > 0 {
			f.bufferSize = size
		}
	}
}

func WithRetryInterval(interval time.Duration) FeedOption {
	return func(f *Feed) {
		if interval > 0 {
			f.retryInterval = interval
		}
	}
}

type Subscription struct {
	id       uuid.UUID
	messages chan Message
	wake     chan struct{}
	cancel   context.CancelFunc
	done     chan struct{}
}

func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Messages is closed once the subscription is removed from the feed.
func (s *Subscription) Messages() <-chan Message {
	return s.messages
}

func (s *Subscription) stop() {
	s.cancel()
	<-s.done

	for range s.messages {
	}
}

// Feed delivers the log to listeners. Every listener owns a cursor and a
// goroutine that reads the store from that cursor whenever it is woken up, so
// an append never waits on a listener and each listener sees strictly
// increasing identifiers exactly once.
type Feed struct {
	lister        Lister
	bufferSize    int
	retryInterval time.Duration

	mu            sync.RWMutex
	subscriptions map[uuid.UUID]*Subscription
	closed        bool
}

func NewFeed(lister Lister, opts ...FeedOption) *Feed {
	f := &Feed{
		lister:        lister,
		bufferSize:    defaultFeedBufferSize,
		retryInterval: defaultFeedRetryInterval,
		subscriptions: make(map[uuid.UUID]*Subscription),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Feed) Subscribe(ctx context.Context) (*Subscription, error) {
	return f.SubscribeFrom(ctx, 0)
}

// SubscribeFrom replays every message after afterID, then follows the log.
func (f *Feed) SubscribeFrom(ctx context.Context, afterID uint64) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFeedClosed
	}

	deliveryCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	sub := &Subscription{
		id:       uuid.New(),
		messages: make(chan Message, f.bufferSize),
		wake:     make(chan struct{}, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	sub.wake <- struct{}{}

	f.subscriptions[sub.id] = sub

	go f.deliver(deliveryCtx, sub, afterID)

	slog.DebugContext(ctx, "listener subscribed", "subscription", sub.id, "after_id", afterID, "listeners", len(f.subscriptions))

	return sub, nil
}

// Unsubscribe returns once delivery to the handle has stopped for good.
func (f *Feed) Unsubscribe(id uuid.UUID) error {
	f.mu.Lock()
	sub, ok := f.subscriptions[id]
	if ok {
		delete(f.subscriptions, id)
	}
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSubscriptionNotFound, id)
	}

	sub.stop()
	return nil
}

func (f *Feed) Notify() {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, sub := range f.subscriptions {
		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}
}

func (f *Feed) Listeners() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.subscriptions)
}

func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	subscriptions := make([]*Subscription, 0, len(f.subscriptions))
	for id, sub := range f.subscriptions {
		subscriptions = append(subscriptions, sub)
		delete(f.subscriptions, id)
	}
	f.mu.Unlock()

	for _, sub := range subscriptions {
		sub.stop()
	}
}

func (f *Feed) deliver(ctx context.Context, sub *Subscription, cursor uint64) {
	defer close(sub.done)
	defer close(sub.messages)

	var retry <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.wake:
		case <-retry:
		}
		retry = nil

		messages, err := f.lister.ListFrom(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			slog.WarnContext(ctx, "error reading log for listener", "subscription", sub.id, "cursor", cursor, "error", err)
			retry = time.After(f.retryInterval)
			continue
		}

		for _, message := range messages {
			if message.ID <= cursor {
				continue
			}

			select {
			case sub.messages <- message:
				cursor = message.ID
			case <-ctx.Done():
				return
			}
		}
	}
}
