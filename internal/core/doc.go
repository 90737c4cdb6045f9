// Package core implements the real-time message routing engine: room
// membership of live connections, validation and addressing of inbound send
// events, and best-effort fan-out of persisted messages.
//
// Rooms are keyed by username. Every authenticated connection is subscribed
// to its own personal room; admin connections are additionally subscribed
// to the shared "admin" room. Users always message the admin room; admins
// reply to a named user.
package core
