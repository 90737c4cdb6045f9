package core

import "sync"

// Outbound events are buffered per client; a client whose buffer stays full
// is treated as unreachable.
const eventBuffer = 16

// Client is a live connection as seen by the routing core. The transport
// layer drains Events; the Registry owns membership once the client is
// subscribed.
type Client struct {
	ID       string
	Identity Identity
	Events   chan *Event

	closeOnce sync.Once
	done      chan struct{}
}

// NewClient constructs a client with an initialized event channel. A zero
// identity means the connection is unauthenticated: it may stay open but
// receives nothing and cannot send.
func NewClient(id string, identity Identity) *Client {
	return &Client{
		ID:       id,
		Identity: identity,
		Events:   make(chan *Event, eventBuffer),
		done:     make(chan struct{}),
	}
}

// Send queues an event for delivery. It never blocks: a closed client
// yields ErrClientClosed and a full buffer yields ErrSlowClient, both of
// which the registry counts as failed delivery.
func (c *Client) Send(ev *Event) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	select {
	case c.Events <- ev:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSlowClient
	}
}

// Close marks the client dead. Idempotent; safe to call from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Done is closed when the client has been closed.
func (c *Client) Done() <-chan struct{} { return c.done }
