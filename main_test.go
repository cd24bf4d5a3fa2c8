//go:build unit
// +build unit

// main_test.go
package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"founders-fest/config"
	"founders-fest/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// testConfig returns a config backed by a fresh sqlite file and local uploads.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env:             "test",
		Port:            "0",
		ApplicationURL:  "http://localhost:8080",
		DBDriver:        "sqlite",
		DBDSN:           filepath.Join(dir, "test.db"),
		UploadBackend:   "local",
		UploadDir:       filepath.Join(dir, "uploads"),
		MailTransport:   "log",
		MailFrom:        "no-reply@foundersfest.test",
		MailMaxAttempts: 1,
		MetricsBackend:  "prometheus",
		CORSOrigins:     []string{"https://foundersfest.test"},
	}
}

// useTestEnv points the CLI commands at a temporary database.
func useTestEnv(t *testing.T) string {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", dsn)
	t.Setenv("UPLOAD_BACKEND", "local")
	t.Setenv("METRICS_BACKEND", "none")
	return dsn
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	cmd := rootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "admin", "seed", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "foundersfest dev\n", out)
}

func TestNewApp_ServesPublicAndGuardsAdmin(t *testing.T) {
	cfg := testConfig(t)
	db, err := store.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	a, err := newApp(cfg, db)
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		a.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = get("/admin/login")
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/admin", "/admin/api/collections", "/admin/ws"} {
		w = get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"), path)
	}

	w = get("/api/content/benefits")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_PublicCORS(t *testing.T) {
	cfg := testConfig(t)
	db, err := store.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	a, err := newApp(cfg, db)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/attendees", nil)
	req.Header.Set("Origin", "https://foundersfest.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://foundersfest.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebsocketURL(t *testing.T) {
	assert.Equal(t, "wss://foundersfest.com/admin/ws", websocketURL("https://foundersfest.com"))
	assert.Equal(t, "ws://localhost:8080/admin/ws", websocketURL("http://localhost:8080/"))
}

func TestAdminCommands_GrantAndRevoke(t *testing.T) {
	useTestEnv(t)

	_, err := execute(t, "admin", "grant", "--email", "nobody@foundersfest.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass --password")

	out, err := execute(t, "admin", "grant", "--email", "Owner@FoundersFest.test", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Granted admin to")

	db, err := openDB()
	require.NoError(t, err)
	identity := store.NewIdentity(db)
	u, err := identity.UserByEmail(context.Background(), "owner@foundersfest.test")
	require.NoError(t, err)
	ok, err := identity.IsAdmin(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	out, err = execute(t, "admin", "revoke", "--email", "owner@foundersfest.test")
	require.NoError(t, err)
	assert.Contains(t, out, "Revoked admin")

	ok, err = identity.IsAdmin(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = execute(t, "admin", "revoke", "--email", "owner@foundersfest.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not an admin")
}

func TestSeedCmd(t *testing.T) {
	useTestEnv(t)
	file := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte(strings.TrimSpace(`
collections:
  benefits:
    - title: Networking
    - title: Exposure
contact_info:
  email: hello@foundersfest.com
`)), 0o600))

	out, err := execute(t, "seed", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 2 items and 1 settings")

	out, err = execute(t, "seed", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped existing content: benefits, contact_info/email")
}

func TestMigrateCmd(t *testing.T) {
	useTestEnv(t)
	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema up to date")
}
