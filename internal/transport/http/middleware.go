package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ochirbat/supportchat-server/internal/auth"
	"github.com/ochirbat/supportchat-server/internal/core"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session"

// ContextKeyIdentity is the gin context key for the resolved identity.
const ContextKeyIdentity = "identity"

// sessionToken extracts the session token from the Authorization header,
// the session cookie, or the token query parameter, in that order.
func sessionToken(r *stdhttp.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.URL.Query().Get("token")
}

// AuthMiddleware rejects requests that carry no resolvable identity.
func AuthMiddleware(authService *auth.Service, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := authService.Identify(sessionToken(c.Request))
		if !ok {
			logger.Debug().Str("path", c.Request.URL.Path).Msg("unauthenticated request")
			c.JSON(stdhttp.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			c.Abort()
			return
		}

		c.Set(ContextKeyIdentity, ident)
		c.Next()
	}
}

// identityFromContext returns the identity stored by AuthMiddleware.
func identityFromContext(c *gin.Context) (core.Identity, bool) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return core.Identity{}, false
	}
	ident, ok := v.(core.Identity)
	return ident, ok
}

// LoggerMiddleware logs each HTTP request after it completes.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
