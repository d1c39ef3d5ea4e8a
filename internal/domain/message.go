package domain

import "time"

const DefaultUser = "Anonymous"

type Message struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}
