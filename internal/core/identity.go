package core

// Role classifies an authenticated identity. It is a closed set: every
// identity in the system is either a regular user or an admin.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// AdminRoom is the shared room every admin connection joins. Messages from
// user-role senders are always addressed to it; there is no per-admin
// addressing.
const AdminRoom = "admin"

// Identity is the (username, role) pair bound to an authenticated
// connection. It is immutable for the lifetime of a session. The zero value
// means the connection is unauthenticated.
type Identity struct {
	Username string
	Role     Role
}

// Valid reports whether the identity belongs to an authenticated session.
func (id Identity) Valid() bool {
	return id.Username != "" && (id.Role == RoleUser || id.Role == RoleAdmin)
}

// ResolveReceiver computes the receiver for a message sent under the given
// role. Users always talk to the shared admin room. Admins must name the
// user they are replying to; an admin send without an explicit receiver is
// rejected.
func ResolveReceiver(role Role, explicit string) (string, *RouteError) {
	if role == RoleAdmin {
		if explicit == "" {
			return "", errMissingReceiver
		}
		return explicit, nil
	}
	return AdminRoom, nil
}
