package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/system/auth"
	"github.com/tradepost/tradepost/internal/domain/models"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func testUser() *models.User {
	return &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "test@example.com",
	}
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_Returns401Envelope(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/listings/user", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Message == "" {
		t.Error("expected a message in the envelope")
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/listings/user", nil)
	req = auth.WithTestUser(req, testUser())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)
	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	u := testUser()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, u)

	got, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected ok to be true when user in context")
	}
	if got.Email != u.Email {
		t.Errorf("expected email %q, got %q", u.Email, got.Email)
	}
}

func TestSignInAndLoadSessionUser(t *testing.T) {
	sm := newTestSessionManager(t)
	u := testUser()
	sm.SetUserFetcher(staticFetcher{u})

	// Sign in and capture the cookie.
	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("GET", "/auth/google/callback", nil)
	if err := sm.SignIn(signinRec, signinReq, u); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	// Replay the cookie through LoadSessionUser.
	var got *models.User
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/user/profile", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user to be loaded from session")
	}
	if got.ID != u.ID {
		t.Errorf("expected user ID %s, got %s", u.ID.Hex(), got.ID.Hex())
	}
}

func TestLoadSessionUser_CorruptCookie_ProceedsAnonymously(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(staticFetcher{testUser()})

	called := false
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user for an undecodable session cookie")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/listings", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-real-session"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected the request to pass through")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestSignOut_ClearsSession(t *testing.T) {
	sm := newTestSessionManager(t)
	u := testUser()
	sm.SetUserFetcher(staticFetcher{u})

	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("GET", "/auth/google/callback", nil)
	if err := sm.SignIn(signinRec, signinReq, u); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	signoutReq := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range signinRec.Result().Cookies() {
		signoutReq.AddCookie(c)
	}
	signoutRec := httptest.NewRecorder()
	if err := sm.SignOut(signoutRec, signoutReq); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	found := false
	for _, c := range signoutRec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected an expired session cookie after SignOut")
	}
}

// staticFetcher returns its fixed user when the session ID matches.
type staticFetcher struct {
	u *models.User
}

func (f staticFetcher) FetchUser(ctx context.Context, id string) *models.User {
	if id == f.u.ID.Hex() {
		return f.u
	}
	return nil
}
