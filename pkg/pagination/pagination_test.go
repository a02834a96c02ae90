package pagination

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParams(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		expected Params
	}{
		{"defaults", 0, 0, Params{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{"second page", 2, 10, Params{Page: 2, Limit: 10, Offset: 10}},
		{"clamps limit", 1, 500, Params{Page: 1, Limit: MaxLimit, Offset: 0}},
		{"negative page", -3, 5, Params{Page: 1, Limit: 5, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewParams(tt.page, tt.limit))
		})
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(Params{Page: 2, Limit: 10, Offset: 10}, 25)

	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	empty := GetMeta(NewParams(1, 10), 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestGetParamsFromQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(GetParams(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?page=3&limit=abc", nil))
	require.NoError(t, err)

	var params Params
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&params))
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
}
