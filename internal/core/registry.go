package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// Registry maps room names to the set of live clients subscribed to them.
// Rooms are keyed by username, plus the shared AdminRoom. Membership is
// ephemeral: it exists only for the lifetime of this process and is rebuilt
// from scratch on restart.
//
// A single Registry instance is constructed at startup and shared by every
// connection-handling goroutine; all access goes through its synchronized
// methods.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   *zerolog.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]map[*Client]struct{}),
		log:   logger,
	}
}

// Subscribe adds the client to the room. Re-subscribing is a no-op.
func (r *Registry) Subscribe(room string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		r.rooms[room] = members
	}
	members[c] = struct{}{}
}

// UnsubscribeAll removes the client from every room it belongs to, dropping
// rooms that become empty. Safe to call for a client that was never
// subscribed.
func (r *Registry) UnsubscribeAll(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room, members := range r.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// Publish delivers the event to every live member of the room, best effort.
// Publishing to a room with no members is a silent no-op. A client that
// fails delivery is treated as already disconnected: it is closed and
// removed from all rooms. Returns the number of successful deliveries.
//
// The membership snapshot is taken under the read lock; delivery happens
// outside it so a slow client never blocks subscription changes.
func (r *Registry) Publish(room string, ev *Event) int {
	r.mu.RLock()
	members := make([]*Client, 0, len(r.rooms[room]))
	for c := range r.rooms[room] {
		members = append(members, c)
	}
	r.mu.RUnlock()

	var failed []*Client
	delivered := 0
	for _, c := range members {
		if err := c.Send(ev); err != nil {
			r.log.Debug().Err(err).Str("room", room).Str("client_id", c.ID).Msg("pruning unreachable client")
			failed = append(failed, c)
			continue
		}
		delivered++
	}

	for _, c := range failed {
		c.Close()
		r.UnsubscribeAll(c)
	}
	return delivered
}

// Members returns the number of clients currently subscribed to the room.
func (r *Registry) Members(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}
