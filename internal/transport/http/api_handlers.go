package http

import (
	"errors"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ochirbat/supportchat-server/internal/auth"
	"github.com/ochirbat/supportchat-server/internal/core"
	"github.com/ochirbat/supportchat-server/internal/store"
)

// Session cookies outlive a browser restart but not the token itself.
const sessionCookieMaxAge = 3600 * 24

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	authService *auth.Service
	store       store.Store
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(authService *auth.Service, st store.Store, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		store:       st,
		log:         logger,
	}
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response body.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SessionResponse represents the current session. Role is "guest" when the
// caller carries no resolvable identity.
type SessionResponse struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Login handles credential login.
// POST /api/login
func (h *APIHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid login request")
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "username and password required"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(stdhttp.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		h.log.Error().Err(err).Str("username", req.Username).Msg("failed to login user")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.SetCookie(SessionCookie, token, sessionCookieMaxAge, "/", "", false, true)

	h.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("user logged in")
	c.JSON(stdhttp.StatusOK, LoginResponse{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	})
}

// Logout clears the session cookie.
// POST /api/logout
func (h *APIHandlers) Logout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(stdhttp.StatusOK, gin.H{"message": "logged out"})
}

// Session reports the caller's identity, or role "guest" for anonymous
// callers.
// GET /api/session
func (h *APIHandlers) Session(c *gin.Context) {
	ident, ok := h.authService.Identify(sessionToken(c.Request))
	if !ok {
		c.JSON(stdhttp.StatusOK, SessionResponse{Role: "guest"})
		return
	}

	c.JSON(stdhttp.StatusOK, SessionResponse{
		Username: ident.Username,
		Role:     string(ident.Role),
	})
}

// ListUsers lists user-role usernames. Admin only.
// GET /api/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok || ident.Role != core.RoleAdmin {
		c.JSON(stdhttp.StatusForbidden, ErrorResponse{Error: "admin access required"})
		return
	}

	names, err := h.store.ListUsernames(c.Request.Context(), store.RoleUser)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list users")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(stdhttp.StatusOK, names)
}

// ListMessages returns message history, filtered by the caller's role:
// users see every message involving themselves; admins see the
// conversation of the user named by the "user" query parameter, or the
// whole log when no user is named.
// GET /api/messages[?user=X]
func (h *APIHandlers) ListMessages(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.JSON(stdhttp.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	var (
		msgs []*store.Message
		err  error
	)
	switch {
	case ident.Role == core.RoleAdmin && c.Query("user") != "":
		msgs, err = h.store.ListForUser(c.Request.Context(), c.Query("user"))
	case ident.Role == core.RoleAdmin:
		msgs, err = h.store.ListAll(c.Request.Context())
	default:
		msgs, err = h.store.ListForUser(c.Request.Context(), ident.Username)
	}
	if err != nil {
		h.log.Error().Err(err).Str("username", ident.Username).Msg("failed to list messages")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(stdhttp.StatusOK, messagesResponse(msgs))
}
