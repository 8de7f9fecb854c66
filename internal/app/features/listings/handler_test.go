package listings_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/features/listings"
	productstore "github.com/tradepost/tradepost/internal/app/store/products"
	userstore "github.com/tradepost/tradepost/internal/app/store/users"
	"github.com/tradepost/tradepost/internal/app/system/paging"
	"github.com/tradepost/tradepost/internal/domain/models"
	"github.com/tradepost/tradepost/internal/testutil"
)

type fakeUploader struct {
	uploadURL string
	uploadErr error
}

func (f *fakeUploader) Upload(ctx context.Context, r io.Reader, folder string) (string, error) {
	return f.uploadURL, f.uploadErr
}

func (f *fakeUploader) Destroy(ctx context.Context, publicID string) error {
	return nil
}

func newTestHandler(t *testing.T) (*listings.Handler, *testutil.Fixtures) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	h := listings.NewHandler(
		productstore.New(db),
		userstore.New(db),
		&fakeUploader{uploadURL: "https://cdn.example.com/image/upload/v1/listings/abc.png"},
		zap.NewNop(),
	)
	return h, testutil.NewFixtures(t, db)
}

type feedResponse struct {
	Listings   []models.Product `json:"listings"`
	Pagination paging.Meta      `json:"pagination"`
}

func TestServeFeed_ExcludesCaller(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Me", "me@example.com")
	other := fx.CreateUser(ctx, "Other", "other@example.com")
	fx.CreateListing(ctx, "My widget", me.ID)
	fx.CreateListing(ctx, "Their widget", other.ID)

	req := httptest.NewRequest("GET", "/listings", nil)
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.ServeFeed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp feedResponse
	testutil.DecodeData(t, rec, &resp)
	if len(resp.Listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(resp.Listings))
	}
	if resp.Listings[0].Seller == me.ID {
		t.Error("feed should not contain the caller's own listings")
	}
	if resp.Pagination.Total != 1 || resp.Pagination.Page != 1 {
		t.Errorf("unexpected pagination %+v", resp.Pagination)
	}
}

func TestServeFeed_Anonymous(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seller := fx.CreateUser(ctx, "Seller", "seller@example.com")
	fx.CreateListing(ctx, "Widget one", seller.ID)
	fx.CreateListing(ctx, "Widget two", seller.ID)

	req := httptest.NewRequest("GET", "/listings", nil)
	rec := httptest.NewRecorder()
	h.ServeFeed(rec, req)

	var resp feedResponse
	testutil.DecodeData(t, rec, &resp)
	if len(resp.Listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(resp.Listings))
	}
}

func TestServeGet_JoinsSeller(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seller := fx.CreateUser(ctx, "Seller Jones", "seller@example.com")
	listing := fx.CreateListing(ctx, "Industrial widget", seller.ID)

	req := httptest.NewRequest("GET", "/listings/"+listing.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Listing models.Product `json:"listing"`
		Seller  *struct {
			ID   primitive.ObjectID `json:"id"`
			Name string             `json:"name"`
		} `json:"seller"`
	}
	testutil.DecodeData(t, rec, &resp)
	if resp.Listing.ID != listing.ID {
		t.Errorf("expected listing %s, got %s", listing.ID.Hex(), resp.Listing.ID.Hex())
	}
	if resp.Seller == nil || resp.Seller.Name != "Seller Jones" {
		t.Errorf("expected joined seller summary, got %+v", resp.Seller)
	}
}

func TestServeGet_InvalidID(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/listings/nope", nil)
	req = testutil.WithChiURLParam(req, "id", "nope")
	rec := httptest.NewRecorder()
	h.ServeGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleCreate_ForcesSellerAndSanitizes(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Me", "me@example.com")
	imposter := primitive.NewObjectID()

	req := testutil.NewJSONRequest(t, "POST", "/listings", map[string]interface{}{
		"name":        "CNC milling service",
		"type":        "service",
		"description": `Precision work.<script>alert("x")</script>`,
		"category":    "machining",
		"seller":      imposter.Hex(),
	})
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created models.Product
	testutil.DecodeData(t, rec, &created)
	if created.Seller != me.ID {
		t.Errorf("expected seller %s, got %s", me.ID.Hex(), created.Seller.Hex())
	}
	if strings.Contains(created.Description, "<script>") {
		t.Errorf("description was not sanitized: %q", created.Description)
	}
	if created.Status != models.ListingStatusActive {
		t.Errorf("expected active status, got %q", created.Status)
	}
}

func TestHandleCreate_BadType(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Me", "me@example.com")

	req := testutil.NewJSONRequest(t, "POST", "/listings", map[string]interface{}{
		"name":        "CNC milling service",
		"type":        "rental",
		"description": "Precision work.",
		"category":    "machining",
	})
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleUpdate_OwnerOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "owner@example.com")
	stranger := fx.CreateUser(ctx, "Stranger", "stranger@example.com")
	listing := fx.CreateListing(ctx, "Industrial widget", owner.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/listings/"+listing.ID.Hex(), map[string]interface{}{
		"name": "Renamed widget",
	})
	req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
	req = testutil.WithUser(req, &stranger)
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	stored, err := productstore.New(fx.DB()).GetByID(ctx, listing.ID)
	if err != nil {
		t.Fatalf("failed to reload listing: %v", err)
	}
	if stored.Name != listing.Name {
		t.Errorf("listing changed despite 403: %q", stored.Name)
	}
}

func TestHandleUpdate(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "owner@example.com")
	listing := fx.CreateListing(ctx, "Industrial widget", owner.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/listings/"+listing.ID.Hex(), map[string]interface{}{
		"name":   "Renamed widget",
		"status": "inactive",
	})
	req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
	req = testutil.WithUser(req, &owner)
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var updated models.Product
	testutil.DecodeData(t, rec, &updated)
	if updated.Name != "Renamed widget" {
		t.Errorf("unexpected name %q", updated.Name)
	}
	if updated.Status != models.ListingStatusInactive {
		t.Errorf("unexpected status %q", updated.Status)
	}
}

func TestHandleDelete_OwnerOnly(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "owner@example.com")
	stranger := fx.CreateUser(ctx, "Stranger", "stranger@example.com")
	listing := fx.CreateListing(ctx, "Industrial widget", owner.ID)

	req := httptest.NewRequest("DELETE", "/listings/"+listing.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
	req = testutil.WithUser(req, &stranger)
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	req = httptest.NewRequest("DELETE", "/listings/"+listing.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", listing.ID.Hex())
	req = testutil.WithUser(req, &owner)
	rec = httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestServeMine(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Me", "me@example.com")
	other := fx.CreateUser(ctx, "Other", "other@example.com")
	fx.CreateListing(ctx, "My widget", me.ID)
	fx.CreateListingWith(ctx, models.Product{
		Name:   "My paused widget",
		Seller: me.ID,
		Status: models.ListingStatusInactive,
	})
	fx.CreateListing(ctx, "Their widget", other.ID)

	req := httptest.NewRequest("GET", "/listings/user", nil)
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.ServeMine(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var mine []models.Product
	testutil.DecodeData(t, rec, &mine)
	if len(mine) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(mine))
	}
}

func TestHandleUploadImage(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Me", "me@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "widget.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/listings/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.HandleUploadImage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp map[string]string
	testutil.DecodeData(t, rec, &resp)
	if resp["url"] == "" {
		t.Error("expected a hosted image URL")
	}
}

func TestHandleUploadImage_MissingFile(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Me", "me@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/listings/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = testutil.WithUser(req, &me)
	rec := httptest.NewRecorder()
	h.HandleUploadImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
