// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/system/auth"
	"github.com/tradepost/tradepost/internal/app/system/httpjson"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles POST /logout. Clears the session cookie whether or
// not a valid session exists.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed during logout", zap.Error(err))
	}
	httpjson.OKMessage(w, "Logged out.")
}
