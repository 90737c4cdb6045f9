package core

import "errors"

// Error codes reported to the originating connection when a send is
// rejected.
const (
	ErrCodeUnauthenticated  = "unauthenticated"
	ErrCodeInvalidMessage   = "invalid_message"
	ErrCodeMissingReceiver  = "missing_receiver"
	ErrCodePersistenceError = "persistence_error"
	ErrCodeBadRequest       = "bad_request"
)

var (
	// ErrClientClosed is returned by Client.Send after the client has been
	// closed.
	ErrClientClosed = errors.New("client closed")
	// ErrSlowClient is returned by Client.Send when the outbound buffer is
	// full. The registry treats it the same as a dead connection.
	ErrSlowClient = errors.New("client not keeping up")
)

// RouteError describes why a send was rejected. It is delivered to the
// sender as an error event; nothing is persisted or published for a send
// that produced one.
type RouteError struct {
	Code    string
	Message string
}

func (e *RouteError) Error() string { return e.Message }

var (
	errUnauthenticated = &RouteError{Code: ErrCodeUnauthenticated, Message: "authentication required"}
	errInvalidMessage  = &RouteError{Code: ErrCodeInvalidMessage, Message: "message cannot be empty"}
	errMissingReceiver = &RouteError{Code: ErrCodeMissingReceiver, Message: "receiver must be specified for admin"}
)

func persistenceError(err error) *RouteError {
	return &RouteError{Code: ErrCodePersistenceError, Message: "failed to store message: " + err.Error()}
}
