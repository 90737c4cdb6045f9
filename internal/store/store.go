package store

import (
	"context"
	"errors"
	"time"
)

// Role values persisted in the users table.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User is an account able to authenticate and exchange messages.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Message is one row of the append-only message log. The routing core never
// updates or deletes rows.
type Message struct {
	ID        int64
	Sender    string
	Receiver  string
	Body      string
	Timestamp time.Time
}

// UserStore handles account persistence.
type UserStore interface {
	// CreateUser creates a new user with a pre-hashed password.
	CreateUser(ctx context.Context, username, passwordHash, role string) (*User, error)

	// EnsureUser creates the user if it does not exist yet. Used for
	// seeding default accounts; an existing username is left untouched.
	EnsureUser(ctx context.Context, username, passwordHash, role string) error

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// ListUsernames lists usernames having the given role, sorted.
	ListUsernames(ctx context.Context, role string) ([]string, error)
}

// MessageStore handles the append-only message log. All listings are
// ordered by timestamp ascending (id breaks ties).
type MessageStore interface {
	// SaveMessage appends a message and returns the stored row with its
	// assigned ID.
	SaveMessage(ctx context.Context, msg *Message) (*Message, error)

	// ListForUser returns every message sent or received by username.
	ListForUser(ctx context.Context, username string) ([]*Message, error)

	// ListAll returns every message in the log.
	ListAll(ctx context.Context) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
