package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const maxPageSize = 100

// pageParams reads ?page= and ?limit=, defaulting to page 1 of size
// defaultSize.
type pageParams struct {
	page  int
	limit int
}

func (p pageParams) offset() int {
	return (p.page - 1) * p.limit
}

func parsePage(c *gin.Context, defaultSize int) (pageParams, error) {
	p := pageParams{page: 1, limit: defaultSize}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, fmt.Errorf("invalid page %q: %w", raw, service.ErrNotFound)
		}
		p.page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, &service.ValidationError{Field: "limit", Message: "must be a positive integer"}
		}
		p.limit = n
	}
	if p.limit > maxPageSize {
		p.limit = maxPageSize
	}
	return p, nil
}

// newPage wraps results in the paginated envelope. Asking for a page past
// the end is an error, as with any unknown resource.
func newPage[T any](c *gin.Context, p pageParams, total int64, results []T) (types.Page[T], error) {
	if p.page > 1 && int64(p.offset()) >= total {
		return types.Page[T]{}, fmt.Errorf("page %d: %w", p.page, service.ErrNotFound)
	}
	page := types.Page[T]{Count: total, Results: results}
	if page.Results == nil {
		page.Results = []T{}
	}
	if int64(p.page*p.limit) < total {
		next := pageURL(c, p.page+1)
		page.Next = &next
	}
	if p.page > 1 {
		prev := pageURL(c, p.page-1)
		page.Previous = &prev
	}
	return page, nil
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
