// internal/app/features/authgoogle/export_test.go
package authgoogle

import "golang.org/x/oauth2"

// SetProvider points the handler at an alternate OAuth provider. Tests
// use it to stand in a local server for Google.
func (h *Handler) SetProvider(endpoint oauth2.Endpoint, userInfoURL string) {
	h.endpoint = endpoint
	h.userInfoURL = userInfoURL
}
