// Package middleware description is Middleware that checks if the user is an admin.
// file: middleware/admin_required.go
package middleware

import (
	"context"
	"net/http"

	"founders-fest/logger"
	"founders-fest/services"
	"github.com/gin-gonic/gin"
)

// Guard resolves a session user to an access outcome.
type Guard interface {
	Resolve(ctx context.Context, userID uint) services.Outcome
}

// ContextUserKey is where AdminRequired stores the verified user id.
const ContextUserKey = "userID"

// AdminRequired re-checks the allow-list on every request. Denied requests are
// redirected to the login page; a request abandoned before the check finishes
// gets no response at all.
func AdminRequired(guard Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := SessionUserID(c)
		outcome := guard.Resolve(c.Request.Context(), userID)

		logger.Debug.Printf("AdminRequired Middleware - user=%d outcome=%s", userID, outcome)

		switch outcome {
		case services.Granted:
			c.Set(ContextUserKey, userID)
			c.Next()
		case services.Denied:
			logger.Warn.Printf("AdminRequired Middleware - Unauthorized attempt blocked (user=%d, path=%s)", userID, c.Request.URL.Path)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
		default:
			c.Abort()
		}
	}
}
