package handlers

import (
	"budget-server/middleware"
	"budget-server/models"
	"budget-server/store"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewAuthHandler(s)
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	return httptest.NewRequest(method, target, &buf)
}

func register(t *testing.T, h *AuthHandler, username, password string) models.AuthResponse {
	t.Helper()
	w := httptest.NewRecorder()
	h.Register(w, jsonRequest(t, "POST", "/api/auth/register", models.RegisterRequest{
		Username:    username,
		DisplayName: "Alice",
		Password:    password,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("register: status = %d (body: %s)", w.Code, w.Body.String())
	}
	var resp models.AuthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp
}

func TestAuth_RoundTrip(t *testing.T) {
	h := newTestAuthHandler(t)

	registered := register(t, h, "alice", "password1")
	if registered.Token == "" {
		t.Fatal("register returned no token")
	}
	if registered.User.Username != "alice" || registered.User.ID == "" {
		t.Fatalf("register user = %+v", registered.User)
	}

	// The issued token must validate and carry the user's id.
	claims, err := middleware.ValidateToken(registered.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != registered.User.ID {
		t.Fatalf("claims.UserID = %q, want %q", claims.UserID, registered.User.ID)
	}

	// Login with the same credentials issues a working token too.
	w := httptest.NewRecorder()
	h.Login(w, jsonRequest(t, "POST", "/api/auth/login", models.LoginRequest{
		Username: "alice",
		Password: "password1",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d (body: %s)", w.Code, w.Body.String())
	}
	var loggedIn models.AuthResponse
	if err := json.NewDecoder(w.Body).Decode(&loggedIn); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	// Me behind the auth middleware, using the bearer token end to end.
	protected := middleware.AuthMiddleware(http.HandlerFunc(h.Me))
	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status = %d (body: %s)", w.Code, w.Body.String())
	}
	var me models.UserResponse
	if err := json.NewDecoder(w.Body).Decode(&me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if me.ID != registered.User.ID || me.Username != "alice" {
		t.Fatalf("me = %+v, want user %q", me, registered.User.ID)
	}
}

func TestAuth_MiddlewareRejectsBadTokens(t *testing.T) {
	h := newTestAuthHandler(t)
	register(t, h, "alice", "password1")
	protected := middleware.AuthMiddleware(http.HandlerFunc(h.Me))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc123"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/auth/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, r)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	h := newTestAuthHandler(t)
	register(t, h, "alice", "password1")

	w := httptest.NewRecorder()
	h.Login(w, jsonRequest(t, "POST", "/api/auth/login", models.LoginRequest{
		Username: "alice",
		Password: "wrong",
	}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuth_RegisterDuplicateUsername(t *testing.T) {
	h := newTestAuthHandler(t)
	register(t, h, "alice", "password1")

	w := httptest.NewRecorder()
	h.Register(w, jsonRequest(t, "POST", "/api/auth/register", models.RegisterRequest{
		Username:    "alice",
		DisplayName: "Alice Again",
		Password:    "password2",
	}))
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}
