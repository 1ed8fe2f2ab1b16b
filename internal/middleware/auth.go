package middleware

import (
	"net/http"
	"strings"
	"time"

	"seatwise/internal/model"
	"seatwise/internal/repository"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID  = "userId"
	ContextSession = "session"
)

// AuthMiddleware authenticates requests with a bearer session token. Each
// authenticated request touches the session's updatedAt, which is what the
// inactivity sweep keys on.
func AuthMiddleware(sessions repository.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Missing bearer token", ""))
			return
		}

		session, err := sessions.FindByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, model.NewErrorResponse("Failed to verify session", ""))
			return
		}
		now := time.Now()
		if session == nil || session.Expired(now) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Invalid or expired session", ""))
			return
		}

		// Best-effort activity marker; a failed touch must not block the
		// request.
		_ = sessions.Touch(c.Request.Context(), token, now)

		c.Set(ContextUserID, session.UserID)
		c.Set(ContextSession, session)
		c.Next()
	}
}

// SessionFrom returns the authenticated session stored by AuthMiddleware.
func SessionFrom(c *gin.Context) (*model.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	session, ok := v.(*model.Session)
	return session, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
