// internal/app/features/blogs/handler.go
package blogs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/media"
	blogstore "github.com/tradepost/tradepost/internal/app/store/blogs"
	"github.com/tradepost/tradepost/internal/app/system/httpjson"
	"github.com/tradepost/tradepost/internal/app/system/timeouts"
	"github.com/tradepost/tradepost/internal/domain/models"
)

// maxBannerBytes caps the multipart memory for blog create requests.
const maxBannerBytes = 10 << 20

// Handler serves the editorial blog endpoints.
type Handler struct {
	Blogs    *blogstore.Store
	Uploader media.Uploader
	Log      *zap.Logger
}

func NewHandler(blogs *blogstore.Store, uploader media.Uploader, logger *zap.Logger) *Handler {
	return &Handler{
		Blogs:    blogs,
		Uploader: uploader,
		Log:      logger,
	}
}

// ServeList handles GET /blogs. Accepts optional parentCategory and
// limit query parameters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		posts []models.Blog
		err   error
	)
	if pc := r.URL.Query().Get("parentCategory"); pc != "" {
		posts, err = h.Blogs.ListByParentCategory(ctx, pc, limit)
	} else {
		posts, err = h.Blogs.List(ctx, limit)
	}
	if err != nil {
		h.Log.Error("blog list failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load posts.")
		return
	}

	httpjson.OK(w, posts)
}

// ServeByCategory handles GET /blogs/category/{slug}. The slug is the
// URL-escaped parent category name.
func (h *Handler) ServeByCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	pc, err := url.PathUnescape(slug)
	if err != nil || !models.ValidParentCategory(pc) {
		httpjson.Fail(w, http.StatusBadRequest, "Unknown category.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Blogs.ListByParentCategory(ctx, pc, 0)
	if err != nil {
		h.Log.Error("blog list failed", zap.Error(err), zap.String("parent_category", pc))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load posts.")
		return
	}

	httpjson.OK(w, posts)
}

// ServeGet handles GET /blogs/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Fail(w, http.StatusNotFound, "Post not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, err := h.Blogs.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusNotFound, "Post not found.")
		return
	}
	if err != nil {
		h.Log.Error("blog load failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load post.")
		return
	}

	httpjson.OK(w, post)
}

// HandleCreate handles POST /blogs. The request is a multipart form so
// the banner image can ride along with the fields. A failed banner
// upload is logged and the post is created without one.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBannerBytes); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	post := models.Blog{
		Title:          r.FormValue("title"),
		Content:        r.FormValue("content"),
		ParentCategory: r.FormValue("parentCategory"),
		Category:       r.FormValue("category"),
		Tags:           splitTags(r.FormValue("tags")),
		Author:         r.FormValue("author"),
	}
	if post.ParentCategory == "" {
		post.ParentCategory = models.ParentCategoryNone
	}
	if raw := r.FormValue("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			httpjson.Fail(w, http.StatusBadRequest, "published must be true or false.")
			return
		}
		post.Published = published
	}

	if file, _, err := r.FormFile("bannerImage"); err == nil {
		defer file.Close()

		if h.Uploader == nil {
			h.Log.Warn("media hosting not configured, creating post without banner")
		} else {
			uploadCtx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
			bannerURL, upErr := h.Uploader.Upload(uploadCtx, file, "blog-banners")
			cancel()
			if upErr != nil {
				h.Log.Warn("banner upload failed, creating post without banner", zap.Error(upErr))
			} else {
				post.BannerImage = bannerURL
			}
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Blogs.Create(ctx, post)
	if blogstore.IsValidation(err) {
		httpjson.Fail(w, http.StatusBadRequest, capitalize(err.Error())+".")
		return
	}
	if err != nil {
		h.Log.Error("blog create failed", zap.Error(err))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not create post.")
		return
	}

	h.Log.Info("blog created", zap.String("id", created.ID.Hex()), zap.String("title", created.Title))
	httpjson.Created(w, created)
}

type updateRequest struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	ParentCategory *string `json:"parentCategory"`
	Category       *string `json:"category"`
	Tags           *string `json:"tags"`
	Published      *bool   `json:"published"`
	Author         *string `json:"author"`
	BannerImage    *string `json:"bannerImage"`
}

// HandleUpdate handles PUT /blogs/{id}. Only the fields present in the
// body are applied; tags arrive as a CSV string.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Fail(w, http.StatusNotFound, "Post not found.")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	upd := blogstore.Update{
		Title:          req.Title,
		Content:        req.Content,
		ParentCategory: req.ParentCategory,
		Category:       req.Category,
		Published:      req.Published,
		Author:         req.Author,
		BannerImage:    req.BannerImage,
	}
	if req.Tags != nil {
		tags := splitTags(*req.Tags)
		upd.Tags = &tags
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	matched, err := h.Blogs.Update(ctx, id, upd)
	if blogstore.IsValidation(err) {
		httpjson.Fail(w, http.StatusBadRequest, capitalize(err.Error())+".")
		return
	}
	if err != nil {
		h.Log.Error("blog update failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not update post.")
		return
	}
	if matched == 0 {
		httpjson.Fail(w, http.StatusNotFound, "Post not found.")
		return
	}

	post, err := h.Blogs.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("blog reload failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not load post.")
		return
	}

	httpjson.OK(w, post)
}

// HandleDelete handles DELETE /blogs/{id}. The hosted banner is
// destroyed best-effort before the record goes.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Fail(w, http.StatusNotFound, "Post not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := h.Blogs.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		httpjson.Fail(w, http.StatusNotFound, "Post not found.")
		return
	}
	if err != nil {
		h.Log.Error("blog load failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not delete post.")
		return
	}

	if publicID := media.PublicIDFromURL(post.BannerImage); publicID != "" && h.Uploader != nil {
		if err := h.Uploader.Destroy(ctx, publicID); err != nil {
			h.Log.Warn("banner destroy failed, deleting post anyway",
				zap.Error(err), zap.String("public_id", publicID))
		}
	}

	if _, err := h.Blogs.Delete(ctx, id); err != nil {
		h.Log.Error("blog delete failed", zap.Error(err), zap.String("id", id.Hex()))
		httpjson.Fail(w, http.StatusInternalServerError, "Could not delete post.")
		return
	}

	h.Log.Info("blog deleted", zap.String("id", id.Hex()))
	httpjson.OKMessage(w, "Post deleted.")
}

func splitTags(csv string) []string {
	tags := []string{}
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
