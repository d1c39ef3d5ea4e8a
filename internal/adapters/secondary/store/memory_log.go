package store

import (
	"context"
	"sort"
	"sync"

	"github.com/arthurdotwork/relay/internal/domain"
)

type MemoryLog struct {
	messages []domain.Message
	sync.RWMutex
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (s *MemoryLog) Append(ctx context.Context, draft domain.Message) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	s.Lock()
	defer s.Unlock()

	draft.ID = uint64(len(s.messages)) + 1
	s.messages = append(s.messages, draft)

	return draft, nil
}

func (s *MemoryLog) ListFrom(ctx context.Context, afterID uint64) ([]domain.Message, error) {
	s.RLock()
	defer s.RUnlock()

	start := sort.Search(len(s.messages), func(i int) bool {
		return s.messages[i].ID > afterID
	})

	messages := make([]domain.Message, len(s.messages)-start)
	copy(messages, s.messages[start:])

	return messages, nil
}

func (s *MemoryLog) Close() error {
	return nil
}
