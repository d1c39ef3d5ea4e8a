// Package relayv1 holds the relay.v1 wire types and service stubs. The types
// are encoded as protobuf by hand in wire.go, following proto/relay/v1/relay.proto,
// and the schema is registered in descriptor.go for reflection.
package relayv1

import "time"

type Message struct {
	Id        uint64
	Text      string
	User      string
	Timestamp time.Time
}

type PublishRequest struct {
	Text string
	User string
}

type PublishResponse struct {
	Message *Message
}

type HistoryRequest struct {
	AfterId uint64
}

type HistoryResponse struct {
	Messages []*Message
}

type SubscribeRequest struct {
	AfterId uint64
}

type ServerClosing struct {
	Message string
}

// ServerEvent carries exactly one of its fields.
type ServerEvent struct {
	Message       *Message
	ServerClosing *ServerClosing
}
