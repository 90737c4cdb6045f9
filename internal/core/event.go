package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventConnectionStatus confirms a successful connect-subscribe.
	EventConnectionStatus EventKind = iota
	// EventReceiveMessage delivers a routed chat message.
	EventReceiveMessage
	// EventError reports a rejected send to the originating connection.
	EventError
)

// Event is pushed to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Status  string // for EventConnectionStatus
	User    string // for EventConnectionStatus
	Message Message
	Error   *RouteError
}
