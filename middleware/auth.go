// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"founders-fest/logger"
	"founders-fest/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys and paths shared by the admin handlers.
const (
	SessionUserKey  = "user_id"
	SessionEmailKey = "email"
	LoginPath       = "/admin/login"
	DashboardPath   = "/admin"
)

// -------------- session helpers --------------

// SessionUserID returns the signed-in user id, or 0 when there is no session.
func SessionUserID(c *gin.Context) uint {
	switch v := sessions.Default(c).Get(SessionUserKey).(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case int64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}

// SignIn stores the user in the session.
func SignIn(c *gin.Context, userID uint, email string) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionUserKey, userID)
	session.Set(SessionEmailKey, email)
	return session.Save()
}

// SignOut clears the session and expires the cookie.
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// -------------- login page filter --------------

// RedirectIfAdmin sends a session that the guard grants straight to the
// dashboard. Anyone else, including a signed-in user who is not on the
// allow-list, gets the login page so they can switch accounts.
// Usage:
//
//	router.GET("/admin/login", RedirectIfAdmin(guard), ShowLoginPage)
func RedirectIfAdmin(guard Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := SessionUserID(c)
		if userID == 0 || guard.Resolve(c.Request.Context(), userID) != services.Granted {
			c.Next()
			return
		}
		logger.Debug.Println("[RedirectIfAdmin] Admin session present - sending to dashboard")
		c.Redirect(http.StatusFound, DashboardPath)
		c.Abort()
	}
}
