package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"
)

const archiveExtension = ".jsonl"

type ArchiverConfig struct {
	Prefix        string
	BatchSize     int
	FlushInterval time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
}

// Archiver follows the feed and exports the log to an object store in
// batches, one JSON document per line.
type Archiver struct {
	feed    *Feed
	objects ObjectStore
	config  ArchiverConfig

	pending []Message
}

func NewArchiver(feed *Feed, objects ObjectStore, config ArchiverConfig) *Archiver {
	if config.BatchSize <= 0 {
		config.BatchSize = 500
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = time.Minute
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = time.Second
	}

	return &Archiver{
		feed:    feed,
		objects: objects,
		config:  config,
	}
}

func (a *Archiver) Run(ctx context.Context) error {
	lastID, err := a.LastArchivedID(ctx)
	if err != nil {
		return fmt.Errorf("archiver.LastArchivedID: %w", err)
	}

	sub, err := a.feed.SubscribeFrom(ctx, lastID)
	if err != nil {
		return fmt.Errorf("feed.SubscribeFrom: %w", err)
	}
	defer func() {
		_ = a.feed.Unsubscribe(sub.ID())
	}()

	slog.InfoContext(ctx, "archiver started", "prefix", a.config.Prefix, "after_id", lastID)

	a.consume(ctx, sub.Messages())
	return nil
}

// consume batches messages until ctx is done or the channel closes. The last
// flush outlives ctx so a shutdown does not drop the pending batch.
func (a *Archiver) consume(ctx context.Context, messages <-chan Message) {
	ticker := time.NewTicker(a.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "context done, flushing archive")
			a.collect(messages)
			a.flush(context.WithoutCancel(ctx))
			return
		case message, ok := <-messages:
			if !ok {
				a.flush(context.WithoutCancel(ctx))
				return
			}

			a.pending = append(a.pending, message)
			if len(a.pending) >= a.config.BatchSize {
				a.flush(ctx)
			}
		case <-ticker.C:
			a.flush(ctx)
		}
	}
}

// collect takes whatever is already buffered without waiting for more.
func (a *Archiver) collect(messages <-chan Message) {
	for {
		select {
		case message, ok := <-messages:
			if !ok {
				return
			}
			a.pending = append(a.pending, message)
		default:
			return
		}
	}
}

// LastArchivedID returns the highest identifier already exported, 0 when
// nothing was archived yet.
func (a *Archiver) LastArchivedID(ctx context.Context) (uint64, error) {
	keys, err := a.objects.List(ctx, a.config.Prefix)
	if err != nil {
		return 0, fmt.Errorf("objects.List: %w", err)
	}

	var lastID uint64
	for _, key := range keys {
		_, last, ok := ParseArchiveKey(key)
		if !ok {
			continue
		}

		if last > lastID {
			lastID = last
		}
	}

	return lastID, nil
}

func (a *Archiver) flush(ctx context.Context) {
	if len(a.pending) == 0 {
		return
	}

	first, last := a.pending[0].ID, a.pending[len(a.pending)-1].ID
	key := ArchiveKey(a.config.Prefix, first, last)

	body, err := encodeLines(a.pending)
	if err != nil {
		slog.ErrorContext(ctx, "error encoding archive batch", "key", key, "error", err)
		return
	}

	if err := a.putWithRetry(ctx, key, body); err != nil {
		slog.ErrorContext(ctx, "archive batch kept for next flush", "key", key, "messages", len(a.pending), "error", err)
		return
	}

	slog.InfoContext(ctx, "archive batch uploaded", "key", key, "messages", len(a.pending))
	a.pending = a.pending[:0]
}

func (a *Archiver) putWithRetry(ctx context.Context, key string, body []byte) error {
	var err error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if err = a.objects.Put(ctx, key, body); err == nil {
			return nil
		}

		if attempt == a.config.MaxRetries {
			break
		}

		backoff := a.config.RetryBackoff * time.Duration(1<<uint(attempt))
		slog.WarnContext(ctx, "archive upload failed, retrying",
			"key", key,
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("objects.Put: %w", err)
}

func ArchiveKey(prefix string, first uint64, last uint64) string {
	return path.Join(prefix, fmt.Sprintf("%020d-%020d%s", first, last, archiveExtension))
}

func ParseArchiveKey(key string) (uint64, uint64, bool) {
	name := strings.TrimSuffix(path.Base(key), archiveExtension)
	if name == path.Base(key) {
		return 0, 0, false
	}

	firstStr, lastStr, ok := strings.Cut(name, "-")
	if !ok {
		return 0, 0, false
	}

	first, err := strconv.ParseUint(firstStr, 10, 64)
	if err != nil {
		return 0, 0, false
	}

	last, err := strconv.ParseUint(lastStr, 10, 64)
	if err != nil || last < first {
		return 0, 0, false
	}

	return first, last, true
}

func encodeLines(messages []Message) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)

	for _, message := range messages {
		if err := encoder.Encode(message); err != nil {
			return nil, fmt.Errorf("encoder.Encode: %w", err)
		}
	}

	return buf.Bytes(), nil
}
