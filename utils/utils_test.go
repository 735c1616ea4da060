package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		remote       string
		want         string
	}{
		{"forwarded list", "82.73.64.55, 103.0.123.105, 40.42.3.28", "10.0.0.1", "82.73.64.55"},
		{"single forwarded", " 82.73.64.55 ", "10.0.0.1", "82.73.64.55"},
		{"no header", "", "82.73.64.55", "82.73.64.55"},
		{"empty first entry", " , 103.0.123.105", "82.73.64.55", "82.73.64.55"},
		{"ipv6", "2001:db8::1, 10.0.0.2", "10.0.0.1", "2001:db8::1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClientIP(tc.forwardedFor, tc.remote))
		})
	}
}

func TestRequestIPPrefersForwardedHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(RequestIP(c))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "82.73.64.55, 103.0.123.105, 40.42.3.28")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "82.73.64.55", string(body))
}

func TestPagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := ParsePagination(c, 100)
		return c.JSON(NewPage(c, p, 250, []int{}))
	})

	page := func(t *testing.T, target string) Page {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var p Page
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
		return p
	}

	t.Run("defaults", func(t *testing.T) {
		p := page(t, "/items")
		assert.EqualValues(t, 250, p.Count)
		require.NotNil(t, p.Next)
		assert.Equal(t, "http://example.com/items?limit=100&offset=100", *p.Next)
		assert.Nil(t, p.Previous)
	})

	t.Run("middle page keeps other params", func(t *testing.T) {
		p := page(t, "/items?company=3&limit=100&offset=100")
		require.NotNil(t, p.Next)
		assert.Equal(t, "http://example.com/items?company=3&limit=100&offset=200", *p.Next)
		require.NotNil(t, p.Previous)
		assert.Equal(t, "http://example.com/items?company=3&limit=100", *p.Previous)
	})

	t.Run("last page", func(t *testing.T) {
		p := page(t, "/items?limit=100&offset=200")
		assert.Nil(t, p.Next)
		require.NotNil(t, p.Previous)
		assert.Equal(t, "http://example.com/items?limit=100&offset=100", *p.Previous)
	})

	t.Run("huge limit has no next page", func(t *testing.T) {
		p := page(t, "/items?limit=9223372036854775807")
		assert.Nil(t, p.Next)
		assert.Nil(t, p.Previous)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		p := page(t, "/items?limit=-5&offset=abc")
		require.NotNil(t, p.Next)
		assert.Equal(t, "http://example.com/items?limit=100&offset=100", *p.Next)
		assert.Nil(t, p.Previous)
	})
}
