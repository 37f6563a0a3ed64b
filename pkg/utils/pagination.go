package utils

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 1000

	PageParam     = "page"
	PageSizeParam = "page_size"
)

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// ParsePage reads page and page_size from the query string, falling back to
// defaults and capping the size.
func ParsePage(r *http.Request) (page, pageSize int) {
	query := r.URL.Query()
	page = ParseInt(query.Get(PageParam), 1)
	pageSize = ParseInt(query.Get(PageSizeParam), DefaultPageSize)
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// PageLink rewrites the page parameter of u. Other parameters are kept.
func PageLink(u *url.URL, page int) string {
	link := *u
	query := link.Query()
	if page <= 1 {
		query.Del(PageParam)
	} else {
		query.Set(PageParam, strconv.Itoa(page))
	}
	link.RawQuery = query.Encode()
	link.Scheme = ""
	link.Host = ""
	return link.RequestURI()
}
