// file: controllers/test_helpers.go
//go:build unit
// +build unit

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"founders-fest/mailer"
	"founders-fest/middleware"
	"founders-fest/models"
	"founders-fest/services"
	"founders-fest/store"
	"founders-fest/websocket"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTestRouter creates a new Gin engine with session middleware and fake HTML templates.
func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Set up sessions with cookie store.
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))

	// Create minimal templates to avoid panics during testing.
	tmpDir := t.TempDir()
	if err := createDummyTemplates(tmpDir); err != nil {
		t.Fatalf("Failed to create dummy templates: %v", err)
	}

	// Use filepath.Join for cross-platform compatibility.
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))
	return router
}

// createDummyTemplates writes a set of minimal HTML templates to the provided directory.
func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"login.html":     `<html><body>login {{.Error}}</body></html>`,
		"dashboard.html": `<html><body>dashboard {{.Email}} {{range .Kinds}}[{{.}}]{{end}}</body></html>`,
	}

	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// SetSession sets the given key/value pairs in the session using a helper route
// and returns the session cookie that can be attached to subsequent test requests.
func SetSession(router *gin.Engine, route string, data map[string]interface{}) *http.Cookie {
	// Create a helper route for setting session values.
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	// Call the helper route.
	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Extract and return the session cookie.
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "testsession" {
			return cookie
		}
	}
	return nil
}

// hashPassword hashes the given password using bcrypt.
func hashPassword(password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic("failed to hash password: " + err.Error())
	}
	return string(hashed)
}

// ---------------- fakes ----------------

// fakeTransport records every message instead of sending it.
type fakeTransport struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeTransport) Send(_ context.Context, msg mailer.Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return fmt.Sprintf("<msg-%d@test>", len(f.sent)), nil
}

func (f *fakeTransport) Sent() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

// memBlob keeps uploads in memory.
type memBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memBlob) Upload(_ context.Context, bucket, objectPath string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	key := bucket + "/" + objectPath
	m.objects[key] = data
	return "https://files.test/" + key, nil
}

func (m *memBlob) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// eventLog captures published websocket events.
type eventLog struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (e *eventLog) Publish(ev websocket.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *eventLog) Actions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Action+":"+ev.Topic)
	}
	return out
}

// ---------------- full application fixture ----------------

const (
	testAdminEmail    = "admin@foundersfest.com"
	testAdminPassword = "correct horse"
)

type testApp struct {
	router      *gin.Engine
	db          *gorm.DB
	identity    *store.Identity
	queues      *store.Queues
	collections *store.Collections
	settings    *store.Settings
	transport   *fakeTransport
	blobs       *memBlob
	events      *eventLog
	admin       *models.User
	adminCookie *http.Cookie
}

// newTestApp wires every controller against an in-memory database, the real
// access guard and fake mail, blob and websocket collaborators.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := store.OpenTestDB(t)
	ctx := context.Background()

	app := &testApp{
		router:      setupTestRouter(t),
		db:          db,
		identity:    store.NewIdentity(db),
		queues:      store.NewQueues(db),
		collections: store.NewCollections(db),
		settings:    store.NewSettings(db),
		transport:   &fakeTransport{},
		blobs:       &memBlob{},
		events:      &eventLog{},
	}

	admin, err := app.identity.CreateUser(ctx, testAdminEmail, hashPassword(testAdminPassword))
	require.NoError(t, err)
	require.NoError(t, app.identity.GrantAdmin(ctx, admin.ID))
	app.admin = admin

	deliveries := store.NewDeliveries(db)
	notifier := services.NewTicketNotifier(app.settings, deliveries, app.transport, nil, app.events,
		services.NotifierOptions{BaseURL: "https://foundersfest.test", MaxAttempts: 1, Sync: true})
	app.queues.Attendees.OnStatusChange(notifier.OnAttendeeStatus)

	RegisterRoutes(app.router, Routes{
		Auth:    NewAuthController(app.identity),
		Content: NewContentController(app.collections, nil, app.events),
		Submissions: NewSubmissionController(SubmissionDeps{
			Queues:     app.queues,
			Attendees:  app.queues.Attendees,
			Tickets:    notifier,
			Deliveries: deliveries,
			Contact:    store.NewContactQueries(db),
			Messenger:  app.events,
		}),
		Intake: NewIntakeController(IntakeDeps{
			Attendees:   app.queues.Attendees,
			Stalls:      app.queues.StallBookings,
			Nominations: app.queues.AwardNominations,
			Contact:     store.NewContactQueries(db),
			Blob:        app.blobs,
			Buckets:     Buckets{StallBookings: "stall-bookings", AwardNominations: "award-nominations"},
			Messenger:   app.events,
		}),
		Settings: NewSettingsController(app.settings, app.events),
		Uploads:  NewUploadController(app.blobs),
		Mail:     NewMailController(app.transport),
		Pages:    NewPageController(app.collections, "ws://localhost/admin/ws"),
		Access:   services.NewAccessGuard(app.identity),
	})

	app.adminCookie = SetSession(app.router, "/test/admin-session", map[string]interface{}{
		middleware.SessionUserKey:  admin.ID,
		middleware.SessionEmailKey: admin.Email,
	})
	require.NotNil(t, app.adminCookie, "Session cookie not found")
	return app
}

// do sends a request, attaching cookie when non-nil. JSON bodies are encoded from v.
func (a *testApp) do(method, path string, v any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if v != nil {
		b, _ := json.Marshal(v)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if v != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// asAdmin sends a request with the admin session cookie.
func (a *testApp) asAdmin(method, path string, v any) *httptest.ResponseRecorder {
	return a.do(method, path, v, a.adminCookie)
}

// multipartBody builds a multipart form from text fields and files (field → name, content).
type formFileSpec struct {
	Name    string
	Content []byte
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]formFileSpec) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, f := range files {
		fw, err := mw.CreateFormFile(field, f.Name)
		require.NoError(t, err)
		_, err = fw.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (a *testApp) postMultipart(path string, body *bytes.Buffer, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", contentType)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a JSON response body.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	pdfBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)
