package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ringkeeper/internal/common"
	"github.com/dmitrijs2005/ringkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// authGuard resolves the caller from the bearer token and stops the chain
// with 401 when it cannot. The user store is not consulted.
func (s *Server) authGuard(c *gin.Context) {
	token, err := auth.BearerToken(c.GetHeader(common.AuthorizationHeader))
	if err != nil {
		s.writeError(c, err)
		c.Abort()
		return
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		s.writeError(c, err)
		c.Abort()
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func (s *Server) requestTimeout(c *gin.Context) {
	if s.timeout <= 0 {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	args := []any{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	}
	if userID := c.GetString(userIDKey); userID != "" {
		args = append(args, "user_id", userID)
	}
	s.logger.Info(c.Request.Context(), "request", args...)
}
