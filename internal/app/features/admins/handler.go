// internal/app/features/admins/handler.go
package admins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	adminstore "github.com/tradepost/tradepost/internal/app/store/admins"
	"github.com/tradepost/tradepost/internal/app/system/adminauth"
	"github.com/tradepost/tradepost/internal/app/system/httpjson"
	"github.com/tradepost/tradepost/internal/app/system/timeouts"
	"github.com/tradepost/tradepost/internal/domain/models"
)

// Handler serves the editorial staff's account endpoints.
type Handler struct {
	Admins *adminstore.Store
	Auth   *adminauth.Manager
	Log    *zap.Logger
}

func NewHandler(admins *adminstore.Store, authMgr *adminauth.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Admins: admins,
		Auth:   authMgr,
		Log:    logger,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister handles POST /admin/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if len(creds.Username) < models.AdminMinUsernameLen {
		httpjson.Fail(w, http.StatusBadRequest,
			fmt.Sprintf("Username must be at least %d characters.", models.AdminMinUsernameLen))
		return
	}
	if len(creds.Password) < models.AdminMinPasswordLen {
		httpjson.Fail(w, http.StatusBadRequest,
			fmt.Sprintf("Password must be at least %d characters.", models.AdminMinPasswordLen))
		return
	}

	hash, err := adminauth.HashPassword(creds.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not create account.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	admin, err := h.Admins.Create(ctx, creds.Username, hash)
	if err == adminstore.ErrDuplicateUsername {
		httpjson.Fail(w, http.StatusBadRequest, "Username is already taken.")
		return
	}
	if err != nil {
		h.Log.Error("admin create failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not create account.")
		return
	}

	h.Log.Info("admin registered", zap.String("username", admin.Username))
	httpjson.Created(w, admin)
}

// HandleLogin handles POST /admin/login. Unknown usernames and wrong
// passwords get the same reply so accounts cannot be enumerated.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if creds.Username == "" || creds.Password == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	admin, err := h.Admins.GetByUsername(ctx, creds.Username)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}
	if err != nil {
		h.Log.Error("admin lookup failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not log in.")
		return
	}

	if !adminauth.CheckPassword(admin.PasswordHash, creds.Password) {
		httpjson.Fail(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	token, err := h.Auth.Sign(admin.ID.Hex(), admin.Username)
	if err != nil {
		h.Log.Error("token sign failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not log in.")
		return
	}

	h.Auth.SetCookie(w, token)
	h.Log.Info("admin logged in", zap.String("username", admin.Username))
	httpjson.OK(w, admin)
}

// ServeMe handles GET /admin/me. RequireAdmin has already attached the
// claims.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := adminauth.CurrentAdmin(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication token required.")
		return
	}

	oid, err := primitive.ObjectIDFromHex(claims.AdminID)
	if err != nil {
		httpjson.Fail(w, http.StatusUnauthorized, "Invalid or expired token.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	admin, err := h.Admins.GetByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		// The token is valid but the account behind it is gone.
		httpjson.Fail(w, http.StatusNotFound, "Admin not found.")
		return
	}
	if err != nil {
		h.Log.Error("admin lookup failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load account.")
		return
	}

	httpjson.OK(w, admin)
}

// HandleLogout handles POST /admin/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Auth.ClearCookie(w)
	httpjson.OKMessage(w, "Logged out.")
}
