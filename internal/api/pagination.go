package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// pageRequest reads the page and limit query parameters.
func pageRequest(c *gin.Context) (types.PageRequest, error) {
	verr := &service.ValidationError{}
	page, ok := queryInt(c, "page")
	if !ok {
		verr.Add("page", "a valid integer is required")
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		verr.Add("limit", "a valid integer is required")
	}
	if err := verr.Err(); err != nil {
		return types.PageRequest{}, err
	}
	return types.PageRequest{Page: page, Limit: limit}.Normalize(), nil
}

// queryInt parses an optional integer parameter. A missing parameter yields 0.
func queryInt(c *gin.Context, name string) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// newPage builds the listing envelope. next and previous are absolute URLs of
// the neighbouring pages with every other query parameter preserved.
func newPage[T any](c *gin.Context, req types.PageRequest, count int64, results []T) types.PageResponse[T] {
	if results == nil {
		results = []T{}
	}
	resp := types.PageResponse[T]{Count: count, Results: results}
	if int64(req.Page*req.Limit) < count {
		resp.Next = pageURL(c, req.Page+1)
	}
	if req.Page > 1 {
		resp.Previous = pageURL(c, req.Page-1)
	}
	return resp
}

func pageURL(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}

	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	s := u.String()
	return &s
}
