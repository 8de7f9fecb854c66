// Package paging implements page-number pagination for listing feeds.
package paging

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Meta is the pagination block returned alongside a listing page.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// Parse reads page and limit query parameters, falling back to the
// defaults when a value is missing, malformed, or out of range.
func Parse(r *http.Request) (page, limit int) {
	page = DefaultPage
	limit = DefaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= MaxLimit {
		limit = v
	}
	return page, limit
}

// NewMeta computes the page count for a total row count and page size.
func NewMeta(total int64, page, limit int) Meta {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Meta{Total: total, Page: page, Pages: pages}
}
