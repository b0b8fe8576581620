package api_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestIngredientSearch(t *testing.T) {
	a := newTestAPI(t)
	salt := a.ingredient("Salt", "g")
	a.ingredient("Basil", "g")
	a.ingredient("Salad leaves", "g")

	w := a.do(http.MethodGet, "/api/ingredients/?name=sal", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]map[string]interface{}](t, w)
	require.Len(t, items, 2)
	assert.Equal(t, "Salt", items[0]["name"])
	assert.Equal(t, "Salad leaves", items[1]["name"])

	w = a.do(http.MethodGet, "/api/ingredients/", nil, "")
	assert.Len(t, decode[[]map[string]interface{}](t, w), 3)

	w = a.do(http.MethodGet, "/api/ingredients/"+itoa(salt.ID)+"/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":`+itoa(salt.ID)+`,"name":"Salt","measurement_unit":"g"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/ingredients/999/", nil, "").Code)
}

func TestTags(t *testing.T) {
	a := newTestAPI(t)
	breakfast := a.tag("breakfast")
	a.tag("dinner")

	w := a.do(http.MethodGet, "/api/tags/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	tags := decode[[]map[string]interface{}](t, w)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0]["slug"])

	w = a.do(http.MethodGet, "/api/tags/"+itoa(breakfast.ID)+"/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, breakfast.Color, decode[map[string]interface{}](t, w)["color"])

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/tags/999/", nil, "").Code)
}
