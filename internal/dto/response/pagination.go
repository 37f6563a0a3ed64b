package response

import (
	"net/url"

	"backend-template/pkg/utils"
)

type PageLinks struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Page is the paginated list body.
type Page[T any] struct {
	Total       int64     `json:"total"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	PageSize    int       `json:"page_size"`
	Results     []T       `json:"results"`
	Links       PageLinks `json:"links"`
}

// NewPage builds the page body. Links are derived from u, keeping its other
// query parameters.
func NewPage[T any](results []T, total int64, page, pageSize int, u *url.URL) Page[T] {
	if results == nil {
		results = []T{}
	}

	totalPages := utils.CalculateTotalPages(total, pageSize)

	p := Page[T]{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
		Results:     results,
	}

	if u != nil {
		if page < totalPages {
			next := utils.PageLink(u, page+1)
			p.Links.Next = &next
		}
		if page > 1 {
			prev := utils.PageLink(u, page-1)
			p.Links.Previous = &prev
		}
	}

	return p
}
