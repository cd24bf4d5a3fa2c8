//go:build unit
// +build unit

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"founders-fest/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guardFunc func(ctx context.Context, userID uint) services.Outcome

func (f guardFunc) Resolve(ctx context.Context, userID uint) services.Outcome { return f(ctx, userID) }

// setupAdminTestRouter mounts a sign-in helper route and an admin-only route.
func setupAdminTestRouter(guard Guard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("testsession", cookie.NewStore([]byte("test-secret"))))

	router.GET("/login-test", func(c *gin.Context) {
		if err := SignIn(c, 7, "admin@example.com"); err != nil {
			c.String(http.StatusInternalServerError, "Failed to save session")
			return
		}
		c.String(http.StatusOK, "Session set")
	})

	router.GET("/admin-only", AdminRequired(guard), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome, admin!", "user": c.GetUint(ContextUserKey)})
	})
	return router
}

func signedInCookie(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/login-test", nil))
	cookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, cookie, "Session cookie should not be empty")
	return cookie
}

// TestAdminRequired_Success ensures an allow-listed user reaches the handler.
func TestAdminRequired_Success(t *testing.T) {
	var seen uint
	router := setupAdminTestRouter(guardFunc(func(_ context.Context, id uint) services.Outcome {
		seen = id
		return services.Granted
	}))

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Cookie", signedInCookie(t, router))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Admin should be allowed")
	assert.Contains(t, w.Body.String(), "Welcome, admin!")
	assert.Contains(t, w.Body.String(), `"user":7`)
	assert.Equal(t, uint(7), seen)
}

// TestAdminRequired_DeniedRedirects ensures a signed-in non-admin is sent to the login page.
func TestAdminRequired_DeniedRedirects(t *testing.T) {
	router := setupAdminTestRouter(guardFunc(func(context.Context, uint) services.Outcome {
		return services.Denied
	}))

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Cookie", signedInCookie(t, router))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "Welcome")
}

// TestAdminRequired_MissingSession ensures the guard sees user 0 without a cookie.
func TestAdminRequired_MissingSession(t *testing.T) {
	router := setupAdminTestRouter(services.NewAccessGuard(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin-only", nil))

	assert.Equal(t, http.StatusFound, w.Code, "Missing session should block access")
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

// TestAdminRequired_PendingWritesNothing covers a request whose context ends mid-check.
func TestAdminRequired_PendingWritesNothing(t *testing.T) {
	router := setupAdminTestRouter(guardFunc(func(context.Context, uint) services.Outcome {
		return services.Pending
	}))

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Cookie", signedInCookie(t, router))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Location"))
	assert.Empty(t, w.Body.String())
}
