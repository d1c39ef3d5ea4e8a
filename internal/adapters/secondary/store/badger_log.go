package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

var (
	messagePrefix = []byte("msg:")
	lastIDKey     = []byte("meta:last_id")
)

// BadgerLog keeps messages under "msg:{id}" with the id zero padded to 20
// digits, so the key order is the log order.
type BadgerLog struct {
	db *badger.DB
	mu sync.Mutex
}

func OpenBadgerLog(path string) (*BadgerLog, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("badger.Open: %w", err)
	}

	return NewBadgerLog(db), nil
}

func NewBadgerLog(db *badger.DB) *BadgerLog {
	return &BadgerLog{db: db}
}

func messageKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", messagePrefix, id))
}

func (s *BadgerLog) Append(ctx context.Context, draft domain.Message) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		lastID, err := readLastID(txn)
		if err != nil {
			return err
		}

		draft.ID = lastID + 1

		if err := txn.Set(messageKey(draft.ID), encodeRecord(draft)); err != nil {
			return fmt.Errorf("txn.Set: %w", err)
		}

		var counter [8]byte
		binary.BigEndian.PutUint64(counter[:], draft.ID)

		return txn.Set(lastIDKey, counter[:])
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("db.Update: %w", err)
	}

	return draft, nil
}

func (s *BadgerLog) ListFrom(ctx context.Context, afterID uint64) ([]domain.Message, error) {
	messages := make([]domain.Message, 0)
	if afterID == math.MaxUint64 {
		return messages, nil
	}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(messageKey(afterID + 1)); it.ValidForPrefix(messagePrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := it.Item().Value(func(value []byte) error {
				message, err := decodeRecord(value)
				if err != nil {
					return err
				}

				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return fmt.Errorf("item.Value: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("db.View: %w", err)
	}

	return messages, nil
}

func (s *BadgerLog) Close() error {
	return s.db.Close()
}

func readLastID(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get(lastIDKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("txn.Get: %w", err)
	}

	var lastID uint64
	err = item.Value(func(value []byte) error {
		if len(value) != 8 {
			return fmt.Errorf("corrupted counter of %d bytes", len(value))
		}

		lastID = binary.BigEndian.Uint64(value)
		return nil
	})

	return lastID, err
}
