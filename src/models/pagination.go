package models

const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxPage          = 1_000_000
	DefaultSortBy    = "createdAt"
)

// SortOrder is the direction of a paginated listing
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PaginationOptions controls a paginated listing
type PaginationOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Normalize fills defaults and clamps out-of-range values
func (o PaginationOptions) Normalize() PaginationOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Page > MaxPage {
		o.Page = MaxPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageLimit
	}
	if o.Limit > MaxPageLimit {
		o.Limit = MaxPageLimit
	}
	if o.SortBy == "" {
		o.SortBy = DefaultSortBy
	}
	if o.SortOrder != SortAsc {
		o.SortOrder = SortDesc
	}
	return o
}

// Offset returns the number of rows to skip
func (o PaginationOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// Pagination describes the position of a page within a listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination computes the pagination block for a page of a listing
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Page is one page of a listing
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPage builds a page; a nil slice is replaced by an empty one so it
// encodes as [] rather than null.
func NewPage[T any](items []T, opts PaginationOptions, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data:       items,
		Pagination: NewPagination(opts.Page, opts.Limit, total),
	}
}
