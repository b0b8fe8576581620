package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", &service.ValidationError{Fields: map[string]string{"name": "cannot be empty"}}, http.StatusBadRequest, `{"name":"cannot be empty"}`},
		{"wrapped not found", fmt.Errorf("%w: recipe id=3", service.ErrNotFound), http.StatusNotFound, `{"error":"not found: recipe id=3"}`},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, `{"error":"you do not have permission to perform this action"}`},
		{"already exists", service.ErrAlreadyExists, http.StatusBadRequest, `{"error":"already exists"}`},
		{"self subscription", service.ErrSelfSubscription, http.StatusBadRequest, `{"error":"you cannot subscribe to yourself"}`},
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized, `{"error":"invalid or expired token"}`},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, logger.Discard(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

type recipeMocks struct {
	recipes   *mocks.MockRecipeService
	favorites *mocks.MockCollectionService
	cart      *mocks.MockCollectionService
	shopping  *mocks.MockShoppingListService
}

func newMockedRecipeRouter(t *testing.T) (*gin.Engine, recipeMocks) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "valid").Return(&types.TokenClaims{UserID: 1}, nil)

	m := recipeMocks{
		recipes:   new(mocks.MockRecipeService),
		favorites: new(mocks.MockCollectionService),
		cart:      new(mocks.MockCollectionService),
		shopping:  new(mocks.MockShoppingListService),
	}
	h := NewRecipeHandler(RecipeHandlerConfig{
		Recipes:      m.recipes,
		Favorites:    m.favorites,
		ShoppingCart: m.cart,
		ShoppingList: m.shopping,
		Serializer:   serializer{imageURL: func(key string) string { return "https://cdn.test/" + key }},
		Log:          logger.Discard(),
	})

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"), middleware.AuthMiddleware(auth), middleware.OptionalAuth(auth))
	return r, m
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListRecipesPassesFilter(t *testing.T) {
	r, m := newMockedRecipeRouter(t)

	want := types.RecipeFilter{AuthorID: 2, TagSlugs: []string{"a", "b"}, FavoritedBy: 1}
	m.recipes.On("ListRecipes", mock.Anything, uint(1), want, types.PageRequest{Page: 2, Limit: 3}).
		Return(&service.Page[service.RecipeDetails]{
			Count: 4,
			Items: []service.RecipeDetails{{Recipe: models.Recipe{ID: 9, Name: "Soup", Image: "recipes/images/x.png"}}},
		}, nil)

	w := serve(r, http.MethodGet, "/api/recipes/?author=2&tags=a&tags=b&is_favorited=1&page=2&limit=3")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	page := struct {
		Count    int64                  `json:"count"`
		Next     *string                `json:"next"`
		Previous *string                `json:"previous"`
		Results  []types.RecipeResponse `json:"results"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(4), page.Count)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "https://cdn.test/recipes/images/x.png", page.Results[0].Image)
	assert.Empty(t, page.Results[0].Tags)
	m.recipes.AssertExpectations(t)
}

func TestRecipeHandlerInternalError(t *testing.T) {
	r, m := newMockedRecipeRouter(t)
	m.recipes.On("GetRecipe", mock.Anything, uint(1), uint(5)).Return(nil, errors.New("db is gone"))
	m.shopping.On("Build", mock.Anything, uint(1)).Return(nil, errors.New("db is gone"))

	w := serve(r, http.MethodGet, "/api/recipes/5/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/recipes/download_shopping_cart/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCollectionRoutes(t *testing.T) {
	r, m := newMockedRecipeRouter(t)
	m.favorites.On("Add", mock.Anything, uint(1), uint(7)).Return(&models.Recipe{ID: 7, Name: "Pie", Image: "k.png", CookingTime: 30}, nil)
	m.cart.On("Remove", mock.Anything, uint(1), uint(7)).Return(fmt.Errorf("%w: not in cart", service.ErrNotFound))

	w := serve(r, http.MethodPost, "/api/recipes/7/favorite/")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":7,"name":"Pie","image":"https://cdn.test/k.png","cooking_time":30}`, w.Body.String())

	w = serve(r, http.MethodDelete, "/api/recipes/7/shopping_cart/")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodPost, "/api/recipes/abc/favorite/")
	assert.Equal(t, http.StatusNotFound, w.Code)

	m.favorites.AssertExpectations(t)
	m.cart.AssertExpectations(t)
}

func TestBindJSONBodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.BodyLimit(32))
	r.POST("/", func(c *gin.Context) {
		var body struct {
			Name string `json:"name"`
		}
		if !bindJSON(c, &body) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	body := `{"name":"` + strings.Repeat("a", 64) + `"}`
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"request body too large"}`, w.Body.String())
}
