// internal/app/features/listings/handler.go
package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/media"
	productstore "github.com/tradepost/tradepost/internal/app/store/products"
	userstore "github.com/tradepost/tradepost/internal/app/store/users"
	"github.com/tradepost/tradepost/internal/app/system/auth"
	"github.com/tradepost/tradepost/internal/app/system/htmlsanitize"
	"github.com/tradepost/tradepost/internal/app/system/httpjson"
	"github.com/tradepost/tradepost/internal/app/system/paging"
	"github.com/tradepost/tradepost/internal/app/system/timeouts"
	"github.com/tradepost/tradepost/internal/domain/models"
)

// maxImageBytes caps the multipart memory for listing image uploads.
const maxImageBytes = 10 << 20

// Handler serves the marketplace listing endpoints.
type Handler struct {
	Products *productstore.Store
	Users    *userstore.Store
	Uploader media.Uploader
	Log      *zap.Logger
}

func NewHandler(products *productstore.Store, users *userstore.Store, uploader media.Uploader, logger *zap.Logger) *Handler {
	return &Handler{
		Products: products,
		Users:    users,
		Uploader: uploader,
		Log:      logger,
	}
}

// feedResponse is the shape of the paginated listing feed.
type feedResponse struct {
	Listings   []models.Product `json:"listings"`
	Pagination paging.Meta      `json:"pagination"`
}

// sellerSummary is the public slice of a seller's profile joined onto a
// single listing.
type sellerSummary struct {
	ID      primitive.ObjectID `json:"id"`
	Name    string             `json:"name"`
	Image   string             `json:"image,omitempty"`
	Company string             `json:"company,omitempty"`
}

type listingResponse struct {
	Listing *models.Product `json:"listing"`
	Seller  *sellerSummary  `json:"seller,omitempty"`
}

// ServeFeed handles GET /listings. The feed only ever shows active
// listings, and never the caller's own.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	page, limit := paging.Parse(r)
	q := r.URL.Query()

	filter := productstore.ListFilter{
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		City:     q.Get("city"),
		State:    q.Get("state"),
		Page:     page,
		Limit:    limit,
	}
	if u, ok := auth.CurrentUser(r); ok {
		filter.ExcludeSeller = &u.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	listings, meta, err := h.Products.List(ctx, filter)
	if err != nil {
		h.Log.Error("listing feed failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load listings.")
		return
	}

	httpjson.OK(w, feedResponse{Listings: listings, Pagination: meta})
}

// ServeMine handles GET /listings/user. Shows all of the caller's
// listings regardless of status.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	listings, err := h.Products.ListBySeller(ctx, u.ID)
	if err != nil {
		h.Log.Error("own listings failed", zap.Error(err), zap.String("seller", u.ID.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load listings.")
		return
	}

	httpjson.OK(w, listings)
}

// ServeGet handles GET /listings/{id}. The seller's public profile
// slice is joined onto the response.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Fail(w, http.StatusNotFound, "Listing not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	listing, err := h.Products.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusNotFound, "Listing not found.")
		return
	}
	if err != nil {
		h.Log.Error("listing load failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load listing.")
		return
	}

	resp := listingResponse{Listing: listing}
	if seller, err := h.Users.GetByID(ctx, listing.Seller); err == nil {
		resp.Seller = &sellerSummary{
			ID:      seller.ID,
			Name:    seller.Name,
			Image:   seller.Image,
			Company: seller.Company,
		}
	} else if err != mongo.ErrNoDocuments {
		h.Log.Warn("seller lookup failed", zap.Error(err), zap.String("seller", listing.Seller.Hex()))
	}

	httpjson.OK(w, resp)
}

type createRequest struct {
	Name                   string                 `json:"name"`
	Type                   string                 `json:"type"`
	Description            string                 `json:"description"`
	Category               string                 `json:"category"`
	Images                 []string               `json:"images"`
	Specifications         []models.Specification `json:"specifications"`
	CustomizationAvailable bool                   `json:"customizationAvailable"`
	Tags                   []string               `json:"tags"`
	Location               models.Location        `json:"location"`
}

// HandleCreate handles POST /listings. The seller is always the
// caller, whatever the body says.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Name == "" || req.Description == "" || req.Category == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Name, description, and category are required.")
		return
	}

	listing := models.Product{
		Name:                   req.Name,
		Type:                   req.Type,
		Description:            htmlsanitize.Sanitize(req.Description),
		Category:               req.Category,
		Images:                 req.Images,
		Specifications:         req.Specifications,
		CustomizationAvailable: req.CustomizationAvailable,
		Tags:                   req.Tags,
		Location:               req.Location,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Products.Create(ctx, listing, u.ID)
	if productstore.IsValidation(err) {
		httpjson.Fail(w, http.StatusBadRequest, capitalize(err.Error())+".")
		return
	}
	if err != nil {
		h.Log.Error("listing create failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not create listing.")
		return
	}

	h.Log.Info("listing created",
		zap.String("id", created.ID.Hex()), zap.String("seller", u.ID.Hex()))
	httpjson.Created(w, created)
}

type updateRequest struct {
	Name                   *string                 `json:"name"`
	Type                   *string                 `json:"type"`
	Description            *string                 `json:"description"`
	Category               *string                 `json:"category"`
	Images                 *[]string               `json:"images"`
	Specifications         *[]models.Specification `json:"specifications"`
	Status                 *string                 `json:"status"`
	CustomizationAvailable *bool                   `json:"customizationAvailable"`
	Tags                   *[]string               `json:"tags"`
	Location               *models.Location        `json:"location"`
}

// HandleUpdate handles PUT /listings/{id}. Only the owner may update;
// anyone else gets a 403.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Fail(w, http.StatusNotFound, "Listing not found.")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Products.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusNotFound, "Listing not found.")
		return
	}
	if err != nil {
		h.Log.Error("listing load failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not update listing.")
		return
	}
	if existing.Seller != u.ID {
		httpjson.Fail(w, http.StatusForbidden, "You do not own this listing.")
		return
	}

	upd := productstore.Update{
		Name:                   req.Name,
		Type:                   req.Type,
		Category:               req.Category,
		Images:                 req.Images,
		Specifications:         req.Specifications,
		Status:                 req.Status,
		CustomizationAvailable: req.CustomizationAvailable,
		Tags:                   req.Tags,
		Location:               req.Location,
	}
	if req.Description != nil {
		clean := htmlsanitize.Sanitize(*req.Description)
		upd.Description = &clean
	}

	matched, err := h.Products.UpdateOwned(ctx, id, u.ID, upd)
	if productstore.IsValidation(err) {
		httpjson.Fail(w, http.StatusBadRequest, capitalize(err.Error())+".")
		return
	}
	if err != nil {
		h.Log.Error("listing update failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not update listing.")
		return
	}
	if matched == 0 {
		// The listing changed hands or vanished between the read and
		// the write.
		httpjson.Fail(w, http.StatusNotFound, "Listing not found.")
		return
	}

	updated, err := h.Products.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("listing reload failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load listing.")
		return
	}

	httpjson.OK(w, updated)
}

// HandleDelete handles DELETE /listings/{id}. Owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Fail(w, http.StatusNotFound, "Listing not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Products.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusNotFound, "Listing not found.")
		return
	}
	if err != nil {
		h.Log.Error("listing load failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not delete listing.")
		return
	}
	if existing.Seller != u.ID {
		httpjson.Fail(w, http.StatusForbidden, "You do not own this listing.")
		return
	}

	if _, err := h.Products.DeleteOwned(ctx, id, u.ID); err != nil {
		h.Log.Error("listing delete failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not delete listing.")
		return
	}

	h.Log.Info("listing deleted", zap.String("id", id.Hex()), zap.String("seller", u.ID.Hex()))
	httpjson.OKMessage(w, "Listing deleted.")
}

// HandleUploadImage handles POST /listings/upload-image. The hosted
// URL comes back for the client to attach to a listing.
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	if h.Uploader == nil {
		httpjson.Fail(w, http.StatusServiceUnavailable, "Media hosting is not configured.")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "An image file is required.")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	imageURL, err := h.Uploader.Upload(ctx, file, "listings")
	if err != nil {
		h.Log.Error("listing image upload failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not upload image.")
		return
	}

	httpjson.OK(w, map[string]string{"url": imageURL})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
