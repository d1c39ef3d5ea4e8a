package domain_test

import (
	"testing"
	"time"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func receive(t *testing.T, sub *domain.Subscription) domain.Message {
	t.Helper()

	select {
	case message, ok := <-sub.Messages():
		require.True(t, ok, "subscription closed")
		return message
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return domain.Message{}
	}
}

func requireNoMessage(t *testing.T, sub *domain.Subscription) {
	t.Helper()

	select {
	case message, ok := <-sub.Messages():
		if ok {
			t.Fatalf("unexpected message %d", message.ID)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func requireClosed(t *testing.T, sub *domain.Subscription) {
	t.Helper()

	select {
	case _, ok := <-sub.Messages():
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription still open")
	}
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) Notify() {
	n.calls++
}
