// Package pagination parses page/size/sort query parameters and shapes the
// paged response envelope shared by every list endpoint.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	dErrors "escriba/pkg/domain-errors"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort fields accepted by the list endpoints.
const (
	SortByID   = "id"
	SortByNome = "nome"
)

// Request is a parsed page request. Page is zero-based.
type Request struct {
	Page      int
	Size      int
	SortField string
	Direction Direction
}

// Default returns the first page sorted by nome ascending.
func Default() Request {
	return Request{Page: 0, Size: DefaultSize, SortField: SortByNome, Direction: Asc}
}

// Offset is the number of rows skipped before this page.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Descending reports whether results are sorted high to low.
func (r Request) Descending() bool {
	return r.Direction == Desc
}

// FromQuery parses page, size and sort. Missing values fall back to Default;
// malformed ones are rejected with CodeBadRequest. size is capped at MaxSize
// and page is bounded so that Offset cannot overflow.
func FromQuery(q url.Values) (Request, error) {
	req := Default()

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return Request{}, dErrors.New(dErrors.CodeBadRequest, "page must be a non-negative integer")
		}
		req.Page = page
	}

	if raw := strings.TrimSpace(q.Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return Request{}, dErrors.New(dErrors.CodeBadRequest, "size must be a positive integer")
		}
		req.Size = min(size, MaxSize)
	}

	// Page*Size and the window end must fit in an int.
	if req.Page > (math.MaxInt-req.Size)/req.Size {
		return Request{}, dErrors.New(dErrors.CodeBadRequest, "page is out of range")
	}

	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		field, dir, _ := strings.Cut(raw, ",")
		field = strings.ToLower(strings.TrimSpace(field))
		switch field {
		case SortByID, SortByNome:
			req.SortField = field
		default:
			return Request{}, dErrors.New(dErrors.CodeBadRequest, "sort field must be one of: id, nome")
		}
		switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
		case "", Asc:
			req.Direction = Asc
		case Desc:
			req.Direction = Desc
		default:
			return Request{}, dErrors.New(dErrors.CodeBadRequest, "sort direction must be asc or desc")
		}
	}

	return req, nil
}

// Page is the response envelope for list endpoints.
type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// NewPage builds the envelope for content out of total matching rows.
func NewPage[T any](content []T, req Request, total int) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// Slice returns the window of items for req. Used by the in-memory stores
// after sorting.
func Slice[T any](items []T, req Request) []T {
	start := req.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+req.Size, len(items))
	return items[start:end]
}
