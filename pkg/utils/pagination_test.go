package utils

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
	assert.Equal(t, 0, CalculateTotalPages(5, 0))
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, DefaultPageSize},
		{"page=3&page_size=20", 3, 20},
		{"page=abc&page_size=-1", 1, DefaultPageSize},
		{"page_size=5000", 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/users?"+tt.query, nil)
			page, size := ParsePage(r)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, size)
		})
	}
}

func TestPageLink_KeepsOtherParams(t *testing.T) {
	u, _ := url.Parse("http://example.com/api/users?page=2&page_size=5")

	assert.Equal(t, "/api/users?page=3&page_size=5", PageLink(u, 3))
	assert.Equal(t, "/api/users?page_size=5", PageLink(u, 1))
}
