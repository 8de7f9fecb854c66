// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/tradepost/tradepost/internal/app/store/users"
	"github.com/tradepost/tradepost/internal/app/system/auth"
	"github.com/tradepost/tradepost/internal/app/system/httpjson"
	"github.com/tradepost/tradepost/internal/app/system/timeouts"
	"github.com/tradepost/tradepost/internal/domain/models"
)

// Handler serves the signed-in user's profile endpoints.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// ServeGet handles GET /user/profile.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	httpjson.OK(w, u)
}

// The optional strings are not pointers on purpose: leaving a field out
// of the body clears it, the same way a full profile form submit would.
type updateRequest struct {
	Name        *string            `json:"name"`
	Image       *string            `json:"image"`
	Company     string             `json:"company"`
	Position    string             `json:"position"`
	Phone       string             `json:"phone"`
	Address     string             `json:"address"`
	Bio         string             `json:"bio"`
	SocialLinks models.SocialLinks `json:"socialLinks"`
}

// HandleUpdate handles PUT /user/profile.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Name != nil && *req.Name == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Name cannot be empty.")
		return
	}

	upd := userstore.ProfileUpdate{
		Name:        req.Name,
		Image:       req.Image,
		Company:     &req.Company,
		Position:    &req.Position,
		Phone:       &req.Phone,
		Address:     &req.Address,
		Bio:         &req.Bio,
		SocialLinks: &req.SocialLinks,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Users.UpdateProfile(ctx, u.ID, upd)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.Log.Error("profile update failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not update profile.")
		return
	}

	httpjson.OK(w, updated)
}
