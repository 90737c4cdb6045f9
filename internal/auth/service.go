package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ochirbat/supportchat-server/internal/core"
	"github.com/ochirbat/supportchat-server/internal/store"
)

// ErrInvalidCredentials is returned when username/password don't match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates credentials and resolves session tokens back to
// identities. It is the registry's and router's identity resolver: the
// routing core never touches credentials or tokens directly.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
	}
}

// Login validates credentials and returns a session token plus the account.
func (s *Service) Login(ctx context.Context, username, password string) (string, *store.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// Identify resolves a session token to an identity. A missing or invalid
// token yields (zero, false): the connection is unauthenticated.
func (s *Service) Identify(token string) (core.Identity, bool) {
	if token == "" {
		return core.Identity{}, false
	}

	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return core.Identity{}, false
	}

	ident := core.Identity{
		Username: claims.Username,
		Role:     core.Role(claims.Role),
	}
	if !ident.Valid() {
		return core.Identity{}, false
	}
	return ident, true
}
