package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/domain/entity"
)

const currentUserKey = "currentUser"

// authMiddleware validates the bearer token and resolves the current user.
// The user is loaded on every request so deactivated accounts are cut off
// immediately, not at token expiry.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}

		claims, err := s.jwtManager.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		user, err := s.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			s.logger.Error("Failed to load session user", "error", err, "user_id", claims.UserID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
				Success: false,
				Error:   "internal error",
			})
			return
		}
		if user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the authenticated user set by authMiddleware.
func currentUser(c *gin.Context) *entity.User {
	user, _ := c.MustGet(currentUserKey).(*entity.User)
	return user
}
