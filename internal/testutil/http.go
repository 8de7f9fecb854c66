package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tradepost/tradepost/internal/app/system/adminauth"
	"github.com/tradepost/tradepost/internal/app/system/auth"
	"github.com/tradepost/tradepost/internal/domain/models"
)

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, u *models.User) *http.Request {
	return auth.WithTestUser(r, u)
}

// WithAdmin adds admin claims to the request context, bypassing the
// JWT middleware.
func WithAdmin(r *http.Request, adminID primitive.ObjectID, username string) *http.Request {
	return adminauth.WithTestAdmin(r, &adminauth.Claims{
		AdminID:  adminID.Hex(),
		Username: username,
	})
}

// NewJSONRequest creates an HTTP request with a JSON-encoded body.
func NewJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Envelope mirrors the API's JSON response envelope for decoding in tests.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// DecodeEnvelope decodes a recorded response body into an Envelope.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return env
}

// DecodeData decodes the data field of a recorded response into v.
func DecodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	env := DecodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got message %q", env.Message)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data field: %v", err)
	}
}
