package server

import (
	"github.com/gin-gonic/gin"
)

const contextUsernameKey = "username"

// AuthRequired gates a route behind a valid operator session cookie.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		sess, ok := s.authsvc.Validate(token)
		if !ok {
			s.sessions.Clear(c)
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUsernameKey, sess.Username)
		c.Next()
	}
}
