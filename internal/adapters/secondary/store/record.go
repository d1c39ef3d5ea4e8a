package store

import (
	"fmt"
	"time"

	"github.com/arthurdotwork/relay/internal/domain"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldID        protowire.Number = 1
	fieldText      protowire.Number = 2
	fieldUser      protowire.Number = 3
	fieldTimestamp protowire.Number = 4
)

// encodeRecord writes a message in protobuf wire format. A zero ID is left
// out, the Redis log keeps identifiers in its index.
func encodeRecord(m domain.Message) []byte {
	var b []byte

	if m.ID != 0 {
		b = protowire.AppendTag(b, fieldID, protowire.VarintType)
		b = protowire.AppendVarint(b, m.ID)
	}

	b = protowire.AppendTag(b, fieldText, protowire.BytesType)
	b = protowire.AppendString(b, m.Text)
	b = protowire.AppendTag(b, fieldUser, protowire.BytesType)
	b = protowire.AppendString(b, m.User)
	b = protowire.AppendTag(b, fieldTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Timestamp.UnixNano()))

	return b
}

func decodeRecord(b []byte) (domain.Message, error) {
	var m domain.Message

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return domain.Message{}, fmt.Errorf("protowire.ConsumeTag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return domain.Message{}, fmt.Errorf("decode id: %w", protowire.ParseError(n))
			}
			m.ID = v
			b = b[n:]
		case num == fieldText && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return domain.Message{}, fmt.Errorf("decode text: %w", protowire.ParseError(n))
			}
			m.Text = v
			b = b[n:]
		case num == fieldUser && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return domain.Message{}, fmt.Errorf("decode user: %w", protowire.ParseError(n))
			}
			m.User = v
			b = b[n:]
		case num == fieldTimestamp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return domain.Message{}, fmt.Errorf("decode timestamp: %w", protowire.ParseError(n))
			}
			m.Timestamp = time.Unix(0, int64(v)).UTC()
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return domain.Message{}, fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	return m, nil
}
