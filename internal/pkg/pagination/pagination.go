package pagination

import (
	"github.com/gofiber/fiber/v2"
)

// DefaultLimit is the default number of items per page
const DefaultLimit = 50

// MaxLimit is the maximum number of items per page
const MaxLimit = 500

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Page is a paginated result
type Page struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta"`
}

// FromQuery extracts pagination parameters from ?page=&limit=
func FromQuery(c *fiber.Ctx) *Params {
	return New(c.QueryInt("page", 1), c.QueryInt("limit", DefaultLimit))
}

// New clamps page and limit into range
func New(page, limit int) *Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// NewPage wraps data with metadata computed from total
func NewPage(data interface{}, params *Params, total int64) *Page {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	return &Page{
		Data: data,
		Meta: &Meta{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    params.Page < totalPages,
			HasPrev:    params.Page > 1,
		},
	}
}
