package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MessageStore is the slice of persistence the router depends on. The full
// store lives in the store package; the router only ever appends.
type MessageStore interface {
	// SaveMessage appends the message and returns the stored record with
	// its assigned ID.
	SaveMessage(ctx context.Context, msg *Message) (*Message, error)
}

// Router validates, addresses, persists and fans out inbound send events.
type Router struct {
	registry *Registry
	store    MessageStore
	log      *zerolog.Logger
	now      func() time.Time
}

// NewRouter constructs a router over the given registry and message store.
func NewRouter(registry *Registry, store MessageStore, logger *zerolog.Logger) *Router {
	return &Router{
		registry: registry,
		store:    store,
		log:      logger,
		now:      time.Now,
	}
}

// Send runs one inbound send event through the pipeline: authenticate,
// validate, address, persist, publish. A non-nil RouteError means the
// pipeline stopped before persisting or publishing anything; the caller
// must report it to the originating connection only.
//
// The message is persisted before any publish so a fanned-out message is
// always on disk. Publish goes to the receiver's room and then the sender's
// own room, so the sender's other live connections see the echo.
func (rt *Router) Send(ctx context.Context, c *Client, body, receiver string) *RouteError {
	ident := c.Identity
	if !ident.Valid() {
		return errUnauthenticated
	}
	if body == "" {
		return errInvalidMessage
	}

	to, rerr := ResolveReceiver(ident.Role, receiver)
	if rerr != nil {
		return rerr
	}

	msg := &Message{
		Sender:    ident.Username,
		Receiver:  to,
		Body:      body,
		Timestamp: rt.now().UTC(),
	}
	saved, err := rt.store.SaveMessage(ctx, msg)
	if err != nil {
		rt.log.Error().Err(err).Str("sender", msg.Sender).Str("receiver", msg.Receiver).Msg("persist message")
		return persistenceError(err)
	}

	ev := &Event{Kind: EventReceiveMessage, Message: *saved}
	rt.registry.Publish(saved.Receiver, ev)
	rt.registry.Publish(saved.Sender, ev)

	rt.log.Debug().
		Int64("id", saved.ID).
		Str("sender", saved.Sender).
		Str("receiver", saved.Receiver).
		Msg("message routed")
	return nil
}
