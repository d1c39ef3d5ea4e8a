package relayv1

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// errUnknownField tells walk to skip a field the decoder does not know.
var errUnknownField = errors.New("unknown field")

// walk feeds every field of b to field, which returns how many bytes of the
// value it consumed.
func walk(b []byte, field func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("protowire.ConsumeTag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if errors.Is(err, errUnknownField) {
			n, err = protowire.ConsumeFieldValue(num, typ, b), nil
		}
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}

	return nil
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessage(b []byte, num protowire.Number, m wireMessage) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.marshalWire(nil))
}

func consumeMessage(b []byte, m wireMessage) (int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	return n, m.unmarshalWire(v)
}

func (m *Message) marshalWire(b []byte) []byte {
	b = appendUint(b, 1, m.Id)
	b = appendString(b, 2, m.Text)
	b = appendString(b, 3, m.User)
	if !m.Timestamp.IsZero() {
		b = appendUint(b, 4, uint64(m.Timestamp.UnixNano()))
	}
	return b
}

func (m *Message) unmarshalWire(b []byte) error {
	*m = Message{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.Id = v
			return n, nil
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Text = v
			return n, nil
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.User = v
			return n, nil
		case num == 4 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n >= 0 {
				m.Timestamp = time.Unix(0, int64(v)).UTC()
			}
			return n, nil
		}
		return 0, errUnknownField
	})
}

func (m *PublishRequest) marshalWire(b []byte) []byte {
	b = appendString(b, 1, m.Text)
	return appendString(b, 2, m.User)
}

func (m *PublishRequest) unmarshalWire(b []byte) error {
	*m = PublishRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return 0, errUnknownField
		}
		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			m.Text = v
			return n, nil
		case 2:
			v, n := protowire.ConsumeString(b)
			m.User = v
			return n, nil
		}
		return 0, errUnknownField
	})
}

func (m *PublishResponse) marshalWire(b []byte) []byte {
	if m.Message == nil {
		return b
	}
	return appendMessage(b, 1, m.Message)
}

func (m *PublishResponse) unmarshalWire(b []byte) error {
	*m = PublishResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 || typ != protowire.BytesType {
			return 0, errUnknownField
		}
		m.Message = &Message{}
		return consumeMessage(b, m.Message)
	})
}

func (m *HistoryRequest) marshalWire(b []byte) []byte {
	return appendUint(b, 1, m.AfterId)
}

func (m *HistoryRequest) unmarshalWire(b []byte) error {
	*m = HistoryRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		return consumeAfterID(num, typ, b, &m.AfterId)
	})
}

func (m *HistoryResponse) marshalWire(b []byte) []byte {
	for _, message := range m.Messages {
		if message != nil {
			b = appendMessage(b, 1, message)
		}
	}
	return b
}

func (m *HistoryResponse) unmarshalWire(b []byte) error {
	*m = HistoryResponse{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 || typ != protowire.BytesType {
			return 0, errUnknownField
		}
		message := &Message{}
		n, err := consumeMessage(b, message)
		if n >= 0 && err == nil {
			m.Messages = append(m.Messages, message)
		}
		return n, err
	})
}

func (m *SubscribeRequest) marshalWire(b []byte) []byte {
	return appendUint(b, 1, m.AfterId)
}

func (m *SubscribeRequest) unmarshalWire(b []byte) error {
	*m = SubscribeRequest{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		return consumeAfterID(num, typ, b, &m.AfterId)
	})
}

func consumeAfterID(num protowire.Number, typ protowire.Type, b []byte, afterID *uint64) (int, error) {
	if num != 1 || typ != protowire.VarintType {
		return 0, errUnknownField
	}
	v, n := protowire.ConsumeVarint(b)
	*afterID = v
	return n, nil
}

func (m *ServerClosing) marshalWire(b []byte) []byte {
	return appendString(b, 1, m.Message)
}

func (m *ServerClosing) unmarshalWire(b []byte) error {
	*m = ServerClosing{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 || typ != protowire.BytesType {
			return 0, errUnknownField
		}
		v, n := protowire.ConsumeString(b)
		m.Message = v
		return n, nil
	})
}

func (m *ServerEvent) marshalWire(b []byte) []byte {
	switch {
	case m.Message != nil:
		return appendMessage(b, 1, m.Message)
	case m.ServerClosing != nil:
		return appendMessage(b, 2, m.ServerClosing)
	}
	return b
}

// unmarshalWire keeps the last member of the event oneof seen on the wire.
func (m *ServerEvent) unmarshalWire(b []byte) error {
	*m = ServerEvent{}
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return 0, errUnknownField
		}
		switch num {
		case 1:
			message := &Message{}
			n, err := consumeMessage(b, message)
			m.Message, m.ServerClosing = message, nil
			return n, err
		case 2:
			closing := &ServerClosing{}
			n, err := consumeMessage(b, closing)
			m.Message, m.ServerClosing = nil, closing
			return n, err
		}
		return 0, errUnknownField
	})
}
