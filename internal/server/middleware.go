package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const contextUserIDKey = "user_id"

// AuthRequired authenticates the session cookie and stores the user id in
// the gin context. Requests without a valid session never reach the
// handler.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.sessions.Clear(c)
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Next()
	}
}

// currentUserID returns the authenticated user id set by AuthRequired.
func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	raw, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := raw.(snowflake.ID)
	return id, ok
}
