package core

import "time"

// Message is the domain model for a routed chat message. Messages are
// append-only: once persisted they are never mutated or deleted by the
// routing core.
type Message struct {
	ID        int64
	Sender    string
	Receiver  string
	Body      string
	Timestamp time.Time
}
