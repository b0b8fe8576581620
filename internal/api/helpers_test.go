package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

// 1x1 transparent PNG
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

const testPassword = "correct-horse-1"

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	log := logger.Discard()
	router := gin.New()
	api.RegisterRoutes(router, api.Dependencies{
		DB:     db,
		Auth:   service.NewAuthService(db, "test-secret", time.Hour, nil, log),
		Images: service.NewLocalImageStore(t.TempDir(), "/media"),
		Log:    log,
	})
	return &testAPI{t: t, router: router, db: db}
}

func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and logs it in.
func (a *testAPI) register(username string) (uint, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/users/", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "First",
		"last_name":  "Last",
		"password":   testPassword,
	}, "")
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[map[string]interface{}](a.t, w)

	w = a.do(http.MethodPost, "/api/auth/token/login/", map[string]string{
		"email":    username + "@example.com",
		"password": testPassword,
	}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	token := decode[map[string]string](a.t, w)["auth_token"]
	require.NotEmpty(a.t, token)

	return uint(user["id"].(float64)), token
}

func (a *testAPI) ingredient(name, unit string) models.Ingredient {
	a.t.Helper()
	i := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(a.t, a.db.Create(&i).Error)
	return i
}

func (a *testAPI) tag(slug string) models.Tag {
	a.t.Helper()
	var n int64
	a.db.Model(&models.Tag{}).Count(&n)
	tag := models.Tag{Name: slug, Color: fmt.Sprintf("#%06X", n+1), Slug: slug}
	require.NoError(a.t, a.db.Create(&tag).Error)
	return tag
}

// createRecipe posts a recipe and returns its id.
func (a *testAPI) createRecipe(token, name string, lines []map[string]uint, tags ...models.Tag) uint {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/recipes/", recipeBody(name, lines, tags...), token)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decode[map[string]interface{}](a.t, w)["id"].(float64))
}

func recipeBody(name string, lines []map[string]uint, tags ...models.Tag) map[string]interface{} {
	tagIDs := make([]uint, len(tags))
	for i, t := range tags {
		tagIDs[i] = t.ID
	}
	return map[string]interface{}{
		"name":         name,
		"text":         "Mix and bake.",
		"cooking_time": 20,
		"image":        pngDataURI,
		"ingredients":  lines,
		"tags":         tagIDs,
	}
}

func line(i models.Ingredient, amount uint) map[string]uint {
	return map[string]uint{"id": i.ID, "amount": amount}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
