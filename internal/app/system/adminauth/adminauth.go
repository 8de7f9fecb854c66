// Package adminauth handles the editorial staff's credentialed login.
// Admins carry a signed JWT in an HTTP-only cookie; this boundary is
// entirely separate from the OAuth user sessions in package auth.
package adminauth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradepost/tradepost/internal/app/system/httpjson"
)

const (
	// CookieName is the admin token cookie.
	CookieName = "token"

	// TokenTTL is how long an admin login lasts.
	TokenTTL = 24 * time.Hour
)

// Manager signs and verifies admin tokens.
type Manager struct {
	secret []byte
	secure bool
}

// New builds a Manager. The secure flag controls the cookie's Secure
// attribute and should be true everywhere except local dev.
func New(secret string, secure bool) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("admin JWT secret is empty")
	}
	return &Manager{secret: []byte(secret), secure: secure}, nil
}

// Claims carried in the admin token.
type Claims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Sign issues a token for the given admin, valid for TokenTTL.
func (m *Manager) Sign(adminID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses a token string and returns its claims. Expired or
// otherwise invalid tokens return an error.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// SetCookie writes the token cookie on a successful login.
func (m *Manager) SetCookie(w http.ResponseWriter, tokenString string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie expires the token cookie on logout.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

type ctxKey string

const claimsKey ctxKey = "adminClaims"

// CurrentAdmin returns the admin claims attached by RequireAdmin.
func CurrentAdmin(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok
}

// WithTestAdmin injects admin claims into the request context. Test
// helper that simulates what RequireAdmin does.
func WithTestAdmin(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, c))
}

// RequireAdmin validates the token cookie and attaches the claims to
// the request context. Missing or invalid tokens get a 401 and the
// stale cookie is cleared.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			httpjson.Fail(w, http.StatusUnauthorized, "Authentication token required.")
			return
		}

		claims, err := m.Verify(cookie.Value)
		if err != nil {
			m.ClearCookie(w)
			httpjson.Fail(w, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
		next.ServeHTTP(w, r)
	})
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt hash against a plaintext candidate.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
