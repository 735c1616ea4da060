package utils

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP returns the first address of an X-Forwarded-For list, or remoteAddr when the list is empty
func ClientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return remoteAddr
}

// RequestIP resolves the submitter address of the current request
func RequestIP(c *fiber.Ctx) string {
	return ClientIP(c.Get(fiber.HeaderXForwardedFor), c.IP())
}

// Pagination is a limit/offset window over a list
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads ?limit and ?offset. Missing or invalid values fall back to
// defaultLimit and 0.
func ParsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	p := Pagination{Limit: defaultLimit}

	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		p.Offset = v
	}
	return p
}

// Page is the list payload returned by every collection endpoint
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPage builds a Page with absolute next/previous links for the current request
func NewPage(c *fiber.Ctx, p Pagination, count int64, results interface{}) Page {
	page := Page{Count: count, Results: results}

	if int64(p.Offset) < count-int64(p.Limit) {
		next := pageURL(c, p.Limit, p.Offset+p.Limit)
		page.Next = &next
	}

	if p.Offset > 0 {
		prevOffset := p.Offset - p.Limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		previous := pageURL(c, p.Limit, prevOffset)
		page.Previous = &previous
	}

	return page
}

func pageURL(c *fiber.Ctx, limit, offset int) string {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		query = url.Values{}
	}

	query.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	} else {
		query.Del("offset")
	}

	return c.BaseURL() + c.Path() + "?" + query.Encode()
}
