package store

import (
	"testing"
	"time"

	"github.com/arthurdotwork/relay/internal/domain"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	message := domain.Message{
		ID:        42,
		Text:      "héllo, wörld",
		User:      "alice",
		Timestamp: time.Date(2024, 5, 1, 9, 30, 0, 987654321, time.UTC),
	}

	t.Run("it should decode what it encodes", func(t *testing.T) {
		decoded, err := decodeRecord(encodeRecord(message))
		require.NoError(t, err)
		require.Equal(t, message, decoded)
	})

	t.Run("it should leave a zero identifier out", func(t *testing.T) {
		withoutID := message
		withoutID.ID = 0

		decoded, err := decodeRecord(encodeRecord(withoutID))
		require.NoError(t, err)
		require.Zero(t, decoded.ID)
		require.Equal(t, message.Text, decoded.Text)
	})

	t.Run("it should skip unknown fields", func(t *testing.T) {
		b := encodeRecord(message)
		b = protowire.AppendTag(b, 15, protowire.BytesType)
		b = protowire.AppendString(b, "future")

		decoded, err := decodeRecord(b)
		require.NoError(t, err)
		require.Equal(t, message, decoded)
	})

	t.Run("it should reject a truncated record", func(t *testing.T) {
		b := encodeRecord(message)

		_, err := decodeRecord(b[:len(b)-3])
		require.Error(t, err)
	})
}
