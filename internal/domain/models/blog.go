// internal/domain/models/blog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog is an editorial post. ParentCategory must be one of the fixed
// top-level sections; Category is a free-text subcategory.
type Blog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Content        string             `bson:"content" json:"content"`
	ParentCategory string             `bson:"parent_category" json:"parentCategory"`
	Category       string             `bson:"category" json:"category"`
	Tags           []string           `bson:"tags" json:"tags"`
	Published      bool               `bson:"published" json:"published"`
	Author         string             `bson:"author" json:"author"`
	BannerImage    string             `bson:"banner_image,omitempty" json:"bannerImage,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// The fixed editorial sections. "None" is accepted at the domain
// boundary for posts that have not been placed yet.
const (
	ParentCategoryNews       = "Latest Automation News & Articles"
	ParentCategoryTrending   = "What's trending"
	ParentCategoryConceptual = "For Your Conceptual Understanding"
	ParentCategoryNone       = "None"
)

// ParentCategories lists every valid parent category.
var ParentCategories = []string{
	ParentCategoryNews,
	ParentCategoryTrending,
	ParentCategoryConceptual,
	ParentCategoryNone,
}

// ValidParentCategory reports whether s names a fixed editorial section.
// The check is intentionally exact: category membership is a domain rule,
// not a storage-layer concern.
func ValidParentCategory(s string) bool {
	for _, c := range ParentCategories {
		if s == c {
			return true
		}
	}
	return false
}

// Content length floors, matching the editorial rules.
const (
	BlogMinTitleLen   = 5
	BlogMinContentLen = 20
)
