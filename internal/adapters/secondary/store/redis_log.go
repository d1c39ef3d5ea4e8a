package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/arthurdotwork/relay/internal/infrastructure/redis"
)

// appendScript assigns the identifier and writes the record in one step:
// the record lands in the hash before its id shows up in the index, so a
// reader walking the index never sees a missing message.
var appendScript = redis.NewScript(`
local id = redis.call('INCR', KEYS[1])
redis.call('HSET', KEYS[2], id, ARGV[1])
redis.call('ZADD', KEYS[3], id, id)
return id
`)

type RedisLog struct {
	client      *redis.Client
	counterKey  string
	messagesKey string
	indexKey    string
}

func NewRedisLog(client *redis.Client, prefix string) *RedisLog {
	return &RedisLog{
		client:      client,
		counterKey:  prefix + ":counter",
		messagesKey: prefix + ":messages",
		indexKey:    prefix + ":index",
	}
}

func (s *RedisLog) Append(ctx context.Context, draft domain.Message) (domain.Message, error) {
	draft.ID = 0

	id, err := appendScript.Run(ctx, s.client.Client,
		[]string{s.counterKey, s.messagesKey, s.indexKey},
		encodeRecord(draft),
	).Int64()
	if err != nil {
		return domain.Message{}, fmt.Errorf("appendScript.Run: %w", err)
	}

	draft.ID = uint64(id)
	return draft, nil
}

func (s *RedisLog) ListFrom(ctx context.Context, afterID uint64) ([]domain.Message, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.indexKey, &redis.ZRangeBy{
		Min: "(" + strconv.FormatUint(afterID, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("client.ZRangeByScore: %w", err)
	}

	messages := make([]domain.Message, 0, len(ids))
	if len(ids) == 0 {
		return messages, nil
	}

	values, err := s.client.HMGet(ctx, s.messagesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("client.HMGet: %w", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("message %s missing from %s", ids[i], s.messagesKey)
		}

		message, err := decodeRecord([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decodeRecord: %w", err)
		}

		message.ID, err = strconv.ParseUint(ids[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("strconv.ParseUint: %w", err)
		}

		messages = append(messages, message)
	}

	return messages, nil
}

// Close leaves the shared client open, its owner closes it.
func (s *RedisLog) Close() error {
	return nil
}
