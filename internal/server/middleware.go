package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sanoh-intern/be-finance-accounting/internal/auth"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id for log correlation,
// honoring one supplied by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

// AuthRequired validates the bearer token and stores the actor on the
// request context. The role path segment must match the token's role so
// a supplier token cannot reach the finance surface.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor, err := auth.ParseToken(raw, s.cfg.AuthJWTSecret)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if role := c.Param("role"); role != "" && role != string(actor.Role) {
			AbortWithError(c, ErrForbidden)
			return
		}

		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func (s *Server) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := auth.ActorFrom(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}
