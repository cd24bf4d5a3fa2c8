//go:build unit
// +build unit

// controllers/auth_controller_test.go
package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"founders-fest/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postLogin(app *testApp, email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest("POST", middleware.LoginPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	app := newTestApp(t)

	w := postLogin(app, "  ADMIN@foundersfest.com ", testAdminPassword)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.DashboardPath, w.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "testsession" {
			session = c
		}
	}
	require.NotNil(t, session)

	dash := app.do("GET", "/admin", nil, session)
	assert.Equal(t, http.StatusOK, dash.Code)
	assert.Contains(t, dash.Body.String(), "dashboard "+testAdminEmail)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t)

	w := postLogin(app, testAdminEmail, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password.")

	w = postLogin(app, "nobody@example.com", "whatever")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postLogin(app, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please fill in all fields.")
}

func TestLogin_NonAdminIsSignedInButDenied(t *testing.T) {
	app := newTestApp(t)
	_, err := app.identity.CreateUser(context.Background(), "visitor@example.com", hashPassword("pw"))
	require.NoError(t, err)

	w := postLogin(app, "visitor@example.com", "pw")
	require.Equal(t, http.StatusFound, w.Code)
	cookie := w.Result().Cookies()[0]

	dash := app.do("GET", "/admin", nil, cookie)
	assert.Equal(t, http.StatusFound, dash.Code)
	assert.Equal(t, middleware.LoginPath, dash.Header().Get("Location"))
	assert.NotContains(t, dash.Body.String(), "dashboard")
}

// followRedirects issues GETs from path until a non-redirect response or maxHops.
func followRedirects(t *testing.T, app *testApp, path string, cookie *http.Cookie) (*httptest.ResponseRecorder, []string) {
	t.Helper()
	const maxHops = 5
	var hops []string
	for i := 0; i < maxHops; i++ {
		hops = append(hops, path)
		w := app.do("GET", path, nil, cookie)
		if w.Code != http.StatusFound {
			return w, hops
		}
		path = w.Header().Get("Location")
	}
	t.Fatalf("no final response after %d hops: %v", maxHops, hops)
	return nil, hops
}

func TestLogin_NonAdminLandsOnLoginForm(t *testing.T) {
	app := newTestApp(t)
	_, err := app.identity.CreateUser(context.Background(), "visitor@example.com", hashPassword("pw"))
	require.NoError(t, err)

	w := postLogin(app, "visitor@example.com", "pw")
	require.Equal(t, http.StatusFound, w.Code)
	cookie := w.Result().Cookies()[0]

	final, hops := followRedirects(t, app, middleware.DashboardPath, cookie)
	assert.Equal(t, http.StatusOK, final.Code)
	assert.Equal(t, []string{middleware.DashboardPath, middleware.LoginPath}, hops)
	assert.Contains(t, final.Body.String(), "does not have admin access")

	// the form still works for switching to an admin account
	w = postLogin(app, testAdminEmail, testAdminPassword)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.DashboardPath, w.Header().Get("Location"))
}

func TestAdminArea_RevokedAdminLandsOnLoginForm(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.identity.RevokeAdmin(context.Background(), app.admin.ID))

	final, hops := followRedirects(t, app, middleware.DashboardPath, app.adminCookie)
	assert.Equal(t, http.StatusOK, final.Code)
	assert.Equal(t, []string{middleware.DashboardPath, middleware.LoginPath}, hops)
	assert.Contains(t, final.Body.String(), "login")
}

func TestAdminArea_RevokedMidSession(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusOK, app.asAdmin("GET", "/admin/api/collections", nil).Code)

	require.NoError(t, app.identity.RevokeAdmin(context.Background(), app.admin.ID))

	w := app.asAdmin("GET", "/admin/api/collections", nil)
	assert.Equal(t, http.StatusFound, w.Code, "the allow-list is checked on every request")
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func TestLoginPage_RedirectsWhenSignedIn(t *testing.T) {
	app := newTestApp(t)

	w := app.do("GET", middleware.LoginPath, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login")

	w = app.asAdmin("GET", middleware.LoginPath, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.DashboardPath, w.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)

	w := app.asAdmin("POST", "/admin/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAdminArea_NoSession(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/admin", "/admin/api/collections", "/admin/api/submissions/attendees", "/admin/api/export/attendees"} {
		w := app.do("GET", path, nil, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"), path)
	}
}
