package pagination

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/trampala/trampala-backend/pkg/types"
)

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 15
	// MaxPerPage caps how many rows any page query can request.
	MaxPerPage = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Normalize enforces the configured defaults and bounds.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// LastPage computes the final page number for a total row count. A total of
// zero still yields page one so that meta never reports an empty range.
func LastPage(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return last
}

// Meta builds the response metadata for a page of results.
func Meta(p Params, total int64) *types.Meta {
	n := p.Normalize()
	return &types.Meta{
		CurrentPage: n.Page,
		PerPage:     n.PerPage,
		Total:       total,
		LastPage:    LastPage(total, n.PerPage),
	}
}

// Links builds first/last/prev/next URLs for a page of results. basePath is
// the request path without pagination query parameters.
func Links(basePath string, p Params, total int64) *types.Links {
	n := p.Normalize()
	last := LastPage(total, n.PerPage)

	build := func(page int) string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(n.PerPage))
		return fmt.Sprintf("%s?%s", basePath, q.Encode())
	}

	links := &types.Links{
		First: build(1),
		Last:  build(last),
	}
	if n.Page > 1 {
		prev := build(minInt(n.Page-1, last))
		links.Prev = &prev
	}
	if n.Page < last {
		next := build(n.Page + 1)
		links.Next = &next
	}
	return links
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
