package profile_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/features/profile"
	userstore "github.com/tradepost/tradepost/internal/app/store/users"
	"github.com/tradepost/tradepost/internal/domain/models"
	"github.com/tradepost/tradepost/internal/testutil"
)

func newTestHandler(t *testing.T) (*profile.Handler, *testutil.Fixtures) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	h := profile.NewHandler(userstore.New(db), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func TestServeGet(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Dana", "dana@example.com")

	req := httptest.NewRequest("GET", "/user/profile", nil)
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.ServeGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var u models.User
	testutil.DecodeData(t, rec, &u)
	if u.Email != "dana@example.com" {
		t.Errorf("unexpected email %q", u.Email)
	}
}

func TestServeGet_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/user/profile", nil)
	rec := httptest.NewRecorder()
	h.ServeGet(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandleUpdate(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Dana", "dana@example.com")

	req := testutil.NewJSONRequest(t, "PUT", "/user/profile", map[string]interface{}{
		"company":  "Acme Robotics",
		"position": "Engineer",
		"bio":      "I build things.",
		"socialLinks": map[string]string{
			"github": "https://github.com/dana",
		},
	})
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var u models.User
	testutil.DecodeData(t, rec, &u)
	if u.Company != "Acme Robotics" {
		t.Errorf("unexpected company %q", u.Company)
	}
	if u.SocialLinks.GitHub != "https://github.com/dana" {
		t.Errorf("unexpected github link %q", u.SocialLinks.GitHub)
	}
	if u.Name != "Dana" {
		t.Errorf("name should be untouched, got %q", u.Name)
	}
}

func TestHandleUpdate_AbsentFieldsClear(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Dana", "dana@example.com")

	// Fill in the profile first.
	req := testutil.NewJSONRequest(t, "PUT", "/user/profile", map[string]interface{}{
		"company": "Acme Robotics",
		"phone":   "555-0100",
	})
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	// A second submit without phone clears it.
	req = testutil.NewJSONRequest(t, "PUT", "/user/profile", map[string]interface{}{
		"company": "Acme Robotics",
	})
	req = testutil.WithUser(req, &me)
	rec = httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	var u models.User
	testutil.DecodeData(t, rec, &u)
	if u.Phone != "" {
		t.Errorf("expected phone cleared, got %q", u.Phone)
	}
	if u.Company != "Acme Robotics" {
		t.Errorf("unexpected company %q", u.Company)
	}
}

func TestHandleUpdate_EmptyName(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Dana", "dana@example.com")

	req := testutil.NewJSONRequest(t, "PUT", "/user/profile", map[string]interface{}{
		"name": "",
	})
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
