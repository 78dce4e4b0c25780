// Package auth verifies bearer tokens, hashes passwords and guards routes by role.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"activities-backend/internal/models"
	"activities-backend/internal/store"
)

const userKey = "user"

// UserFinder looks up the account a token was issued to.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Protect requires "Authorization: Bearer <token>". A valid token attaches
// the user it names, without the password, to the context. When that user no
// longer exists the request continues with no user attached.
func Protect(tokens *Tokens, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, ErrMissingToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.Set(userKey, user)
		case errors.Is(err, store.ErrNotFound):
			// stale subject: continue unauthenticated
		default:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		c.Next()
	}
}

// Authorize rejects attached users whose role is not in roles. An empty
// roles list allows everyone, and requests without an attached user pass.
// It must run after Protect.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if len(roles) > 0 && ok && !user.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized to access this route"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Protect.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
