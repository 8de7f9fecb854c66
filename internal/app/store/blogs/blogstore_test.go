package blogstore_test

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	blogstore "github.com/tradepost/tradepost/internal/app/store/blogs"
	"github.com/tradepost/tradepost/internal/domain/models"
	"github.com/tradepost/tradepost/internal/testutil"
)

func validBlog() models.Blog {
	return models.Blog{
		Title:          "Automation in Small Workshops",
		Content:        "<p>A long enough body about the topic at hand.</p>",
		ParentCategory: models.ParentCategoryNews,
		Category:       "automation",
		Published:      true,
		Author:         "Editorial Team",
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validBlog())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if created.Tags == nil {
		t.Error("expected tags slice to be initialized")
	}
}

func TestStore_Create_SanitizesContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := validBlog()
	b.Content = "<p>Perfectly fine paragraph of text.</p><script>alert('xss')</script>"

	created, err := store.Create(ctx, b)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if strings.Contains(created.Content, "<script>") {
		t.Errorf("expected script stripped from content, got %q", created.Content)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name   string
		mutate func(*models.Blog)
	}{
		{"short title", func(b *models.Blog) { b.Title = "Hey" }},
		{"short content", func(b *models.Blog) { b.Content = "too short" }},
		{"unknown parent category", func(b *models.Blog) { b.ParentCategory = "Hot Takes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBlog()
			tt.mutate(&b)
			if _, err := store.Create(ctx, b); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStore_Create_NoneCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := validBlog()
	b.ParentCategory = models.ParentCategoryNone

	if _, err := store.Create(ctx, b); err != nil {
		t.Errorf("expected 'None' to be an accepted parent category: %v", err)
	}
}

func TestStore_ListByParentCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateBlog(ctx, "News One", models.ParentCategoryNews)
	fixtures.CreateBlog(ctx, "News Two", models.ParentCategoryNews)
	fixtures.CreateBlog(ctx, "Trending One", models.ParentCategoryTrending)

	blogs, err := store.ListByParentCategory(ctx, models.ParentCategoryNews, 0)
	if err != nil {
		t.Fatalf("ListByParentCategory failed: %v", err)
	}
	if len(blogs) != 2 {
		t.Errorf("expected 2 news posts, got %d", len(blogs))
	}

	blogs, err = store.ListByParentCategory(ctx, models.ParentCategoryNews, 1)
	if err != nil {
		t.Fatalf("ListByParentCategory failed: %v", err)
	}
	if len(blogs) != 1 {
		t.Errorf("expected limit to cap results at 1, got %d", len(blogs))
	}
}

func TestStore_Update_Partial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validBlog())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	title := "Automation in Large Workshops"
	published := false
	matched, err := store.Update(ctx, created.ID, blogstore.Update{
		Title:     &title,
		Published: &published,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if matched != 1 {
		t.Fatalf("expected 1 match, got %d", matched)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != title || got.Published {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Content != created.Content {
		t.Error("untouched content should be preserved")
	}
}

func TestStore_Update_RejectsBadParentCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validBlog())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	bad := "Opinions"
	if _, err := store.Update(ctx, created.ID, blogstore.Update{ParentCategory: &bad}); err == nil {
		t.Error("expected error for unknown parent category")
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	title := "Valid New Title"
	matched, err := store.Update(ctx, primitive.NewObjectID(), blogstore.Update{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if matched != 0 {
		t.Errorf("expected 0 matches, got %d", matched)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := blogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validBlog())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", deleted)
	}

	if _, err := store.GetByID(ctx, created.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments after delete, got %v", err)
	}
}
