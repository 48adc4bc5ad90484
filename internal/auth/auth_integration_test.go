package auth_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/auth"
	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/config"
	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/db"
	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/middleware"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

var (
	conn       *gorm.DB
	sessions   *auth.SessionStore
	testServer *httptest.Server
)

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up).
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DB_HOST") == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}
	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "0")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	conn, err = db.Connect(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	dbAvailable = true

	if err := auth.Init(conn); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := zerolog.Nop()
	service := auth.NewService(auth.NewGormCredentialStore(conn), log)
	sessions = auth.NewSessionStore(conn, auth.DefaultSessionTTL)
	handler := auth.NewHandler(service, sessions, log)

	guard := middleware.RequireSession(sessions)
	limiter := middleware.NewRateLimiter(rate.Inf, 0)

	// Mirror the production router plus one guarded probe route.
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	handler.RegisterRoutes(r, guard, limiter.Middleware)
	r.With(guard).Get("/probe", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DB_HOST)")
	}
}

// newClient returns an http client with a cookie jar so the session cookie
// survives across requests.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func uniqueUsername() string {
	return fmt.Sprintf("testuser_%s", uuid.NewString()[:8])
}

func postJSON(t *testing.T, client *http.Client, path, body string) *http.Response {
	t.Helper()
	resp, err := client.Post(testServer.URL+path, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func cleanupUser(t *testing.T, username string) {
	t.Cleanup(func() {
		conn.Where("username = ?", username).Delete(&auth.Session{})
		conn.Where("username = ?", username).Delete(&auth.User{})
	})
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	requireDB(t)

	username := uniqueUsername()
	cleanupUser(t, username)
	creds := fmt.Sprintf(`{"username":%q,"password":"TestPass123!"}`, username)
	client := newClient(t)

	resp := postJSON(t, client, "/signup", creds)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.StatusCode)
	}

	// Duplicate signup is rejected.
	resp = postJSON(t, client, "/signup", creds)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", resp.StatusCode)
	}

	// Wrong password and unknown user fail identically.
	resp = postJSON(t, client, "/login", fmt.Sprintf(`{"username":%q,"password":"wrong"}`, username))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", resp.StatusCode)
	}
	resp = postJSON(t, client, "/login", `{"username":"no-such-user","password":"whatever"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", resp.StatusCode)
	}

	// The guard rejects before login.
	resp, err := client.Get(testServer.URL + "/probe")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("probe before login: expected 401, got %d", resp.StatusCode)
	}

	resp = postJSON(t, client, "/login", creds)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	resp, err = client.Get(testServer.URL + "/probe")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("probe after login: expected 200, got %d", resp.StatusCode)
	}

	resp, err = client.Get(testServer.URL + "/logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	resp, err = client.Get(testServer.URL + "/probe")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("probe after logout: expected 401, got %d", resp.StatusCode)
	}

	// Logout again is a no-op, not an error.
	resp, err = client.Get(testServer.URL + "/logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeated logout: expected 200, got %d", resp.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	requireDB(t)

	username := uniqueUsername()
	cleanupUser(t, username)

	token, err := sessions.Start(username)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	got, err := sessions.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != username {
		t.Errorf("expected %q, got %q", username, got)
	}

	if err := sessions.Destroy(token); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := sessions.Validate(token); err != auth.ErrUnauthorized {
		t.Errorf("validate after destroy: expected ErrUnauthorized, got %v", err)
	}

	// Destroy is idempotent.
	if err := sessions.Destroy(token); err != nil {
		t.Errorf("repeated destroy: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	requireDB(t)

	username := uniqueUsername()
	cleanupUser(t, username)

	shortLived := auth.NewSessionStore(conn, time.Millisecond)
	token, err := shortLived.Start(username)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := shortLived.Validate(token); err != auth.ErrUnauthorized {
		t.Errorf("expired token: expected ErrUnauthorized, got %v", err)
	}
}

func TestConcurrentSessionsPerUser(t *testing.T) {
	requireDB(t)

	username := uniqueUsername()
	cleanupUser(t, username)

	first, err := sessions.Start(username)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	second, err := sessions.Start(username)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Both tokens stay valid; starting a second session doesn't evict the first.
	for _, token := range []string{first, second} {
		if got, err := sessions.Validate(token); err != nil || got != username {
			t.Errorf("validate %q: got (%q, %v)", token, got, err)
		}
	}
}
