package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Rakabidaasta/npc-hackaton/internal/auth"
	sqliteRepo "github.com/Rakabidaasta/npc-hackaton/internal/repository/sqlite"
	"github.com/Rakabidaasta/npc-hackaton/internal/service"
	"github.com/Rakabidaasta/npc-hackaton/internal/ws"
)

// testTemplates writes a minimal template set to a temp dir. The pages
// render the fields the assertions look at, nothing more.
func testTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"base.html":    `{{define "base"}}{{.Title}}|user={{with .User}}{{.Name}}{{end}}|error={{.Error}}|notice={{.Notice}}|{{template "content" .}}{{end}}`,
		"index.html":   `{{define "content"}}landing{{end}}`,
		"signup.html":  `{{define "content"}}signup-form{{end}}`,
		"login.html":   `{{define "content"}}login-form{{end}}`,
		"profile.html": `{{define "content"}}profile:{{.User.Email}}{{end}}`,
		"chat.html":    `{{define "content"}}{{range .Messages}}[{{.Time}} {{.Author}}: {{.Text}}]{{end}}{{end}}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing template %s: %v", name, err)
		}
	}

	return dir
}

// testEnv wires the full handler stack over an in-memory database, with
// the same route table the server mounts.
type testEnv struct {
	router *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	renderer, err := NewRenderer(testTemplates(t), logger)
	require.NoError(t, err)

	sessions, err := auth.NewSessionService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(4)

	authSvc := service.NewAuthService(db.Users(), passwords, sessions, logger)
	chatSvc := service.NewChatService(db.Messages(), db.Users(), logger)

	hub := ws.NewHub(logger)
	go hub.Run()

	pageHandler := NewPageHandler(renderer, logger)
	authHandler := NewAuthHandler(authSvc, renderer, logger)
	chatHandler := NewChatHandler(chatSvc, hub, renderer, logger)

	router := chi.NewRouter()
	router.Get("/", pageHandler.HandleLanding)
	router.Get("/healthcheck", HandleHealthcheck)
	router.Route("/auth", func(r chi.Router) {
		r.Get("/signup", authHandler.HandleSignupForm)
		r.Post("/signup", authHandler.HandleSignup)
		r.Get("/login", authHandler.HandleLoginForm)
		r.Post("/login", authHandler.HandleLogin)
	})
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(sessions, authSvc))
		r.Get("/logout", authHandler.HandleLogout)
		r.Get("/profile", pageHandler.HandleProfile)
		r.Get("/chat", chatHandler.HandleChatView)
		r.Post("/chat", chatHandler.HandlePostMessage)
	})

	return &testEnv{router: router}
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signupAndLogin registers a user and returns their session cookie.
func (e *testEnv) signupAndLogin(t *testing.T, email, name, password string) *http.Cookie {
	t.Helper()

	rec := e.postForm(t, "/auth/signup", url.Values{
		"email":    {email},
		"name":     {name},
		"password": {password},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = e.postForm(t, "/auth/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func sessionCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			out = append(out, c)
		}
	}
	return out
}
