// Package auth manages signed-in user sessions. Users authenticate via
// Google OAuth; the session cookie carries only the user ID, and the
// full user document is re-fetched on each request so profile edits and
// role changes take effect immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/system/httpjson"
	"github.com/tradepost/tradepost/internal/domain/models"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// UserFetcher loads the current user record for a session's user ID.
// Implementations return nil when the user no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *models.User
}

// SessionManager owns the cookie store and the middleware that attach
// the signed-in user to request contexts.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a SessionManager from the configured session
// key. The secure flag controls the cookie's Secure and SameSite modes:
// production uses Secure + SameSite=None, local dev uses Lax.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher wires the store used to re-load users on each request.
// Must be called before LoadSessionUser runs.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// SignIn records the user's ID in a fresh session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID.Hex()
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user attached by LoadSessionUser.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok
}

// WithTestUser injects a user into the request context. Test helper that
// simulates what LoadSessionUser does.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return withUser(r, u)
}

// LoadSessionUser resolves the session cookie to a user document and
// injects it into the request context. Requests without a valid session
// pass through unauthenticated.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			// Get still returns a usable empty session on error, so the
			// request proceeds anonymously. A decode failure is routine
			// after a key rotation; anything else deserves a look.
			var scErr securecookie.Error
			if errors.As(err, &scErr) && scErr.IsDecode() {
				sm.log.Debug("session cookie failed to decode", zap.Error(err))
			} else {
				sm.log.Warn("session load failed", zap.Error(err))
			}
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			if id, _ := sess.Values[userIDKey].(string); id != "" && sm.fetcher != nil {
				if u := sm.fetcher.FetchUser(r.Context(), id); u != nil {
					r = withUser(r, u)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser) and replies 401 with the standard envelope otherwise.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
