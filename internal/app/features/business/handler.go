// internal/app/features/business/handler.go
package business

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/media"
	businessstore "github.com/tradepost/tradepost/internal/app/store/businesses"
	userstore "github.com/tradepost/tradepost/internal/app/store/users"
	"github.com/tradepost/tradepost/internal/app/system/auth"
	"github.com/tradepost/tradepost/internal/app/system/httpjson"
	"github.com/tradepost/tradepost/internal/app/system/timeouts"
	"github.com/tradepost/tradepost/internal/domain/models"
)

// maxLogoBytes caps the multipart memory for logo uploads.
const maxLogoBytes = 5 << 20

// Handler serves the caller's business endpoints.
type Handler struct {
	Businesses *businessstore.Store
	Users      *userstore.Store
	Uploader   media.Uploader
	Log        *zap.Logger
}

func NewHandler(businesses *businessstore.Store, users *userstore.Store, uploader media.Uploader, logger *zap.Logger) *Handler {
	return &Handler{
		Businesses: businesses,
		Users:      users,
		Uploader:   uploader,
		Log:        logger,
	}
}

// ServeProfile handles GET /business/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	biz, err := h.Businesses.GetByOwner(ctx, u.ID)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusNotFound, "No business registered.")
		return
	}
	if err != nil {
		h.Log.Error("business load failed", zap.Error(err), zap.String("owner", u.ID.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load business.")
		return
	}

	httpjson.OK(w, biz)
}

// HandleRegister handles POST /business/register. The business document
// and the owner's user document are written in two steps; if the second
// write fails the business is deleted again so the two never disagree.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var biz models.Business
	if err := json.NewDecoder(r.Body).Decode(&biz); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.Businesses.Create(ctx, biz, u.ID)
	if err == businessstore.ErrAlreadyRegistered {
		httpjson.Fail(w, http.StatusBadRequest, "Business already registered.")
		return
	}
	if businessstore.IsValidation(err) {
		httpjson.Fail(w, http.StatusBadRequest, capitalize(err.Error())+".")
		return
	}
	if err != nil {
		h.Log.Error("business create failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not register business.")
		return
	}

	if err := h.Users.AttachBusiness(ctx, u.ID, created.ID); err != nil {
		h.Log.Error("owner update failed, rolling back business",
			zap.Error(err), zap.String("business", created.ID.Hex()))
		if delErr := h.Businesses.Delete(ctx, created.ID); delErr != nil {
			h.Log.Error("business rollback failed", zap.Error(delErr),
				zap.String("business", created.ID.Hex()))
		}
		httpjson.Fail(w, http.StatusInternalServerError, "Could not register business.")
		return
	}

	h.Log.Info("business registered",
		zap.String("business", created.ID.Hex()), zap.String("owner", u.ID.Hex()))
	httpjson.Created(w, created)
}

// HandleUploadLogo handles POST /business/upload-logo.
func (h *Handler) HandleUploadLogo(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	if h.Uploader == nil {
		httpjson.Fail(w, http.StatusServiceUnavailable, "Media hosting is not configured.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	biz, err := h.Businesses.GetByOwner(ctx, u.ID)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusNotFound, "No business registered.")
		return
	}
	if err != nil {
		h.Log.Error("business load failed", zap.Error(err), zap.String("owner", u.ID.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not upload logo.")
		return
	}

	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}
	file, _, err := r.FormFile("logo")
	if err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "A logo file is required.")
		return
	}
	defer file.Close()

	logoURL, err := h.Uploader.Upload(ctx, file, "business-logos")
	if err != nil {
		h.Log.Error("logo upload failed", zap.Error(err), zap.String("business", biz.ID.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not upload logo.")
		return
	}

	if err := h.Businesses.SetLogo(ctx, biz.ID, logoURL); err != nil {
		h.Log.Error("logo save failed", zap.Error(err), zap.String("business", biz.ID.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not upload logo.")
		return
	}

	httpjson.OK(w, map[string]string{"url": logoURL})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
