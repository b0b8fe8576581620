package api

import (
	"context"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies are the collaborators shared by the route handlers.
type Dependencies struct {
	DB            *gorm.DB
	Auth          service.IAuthService
	Images        service.ImageStore
	RecipeLimiter *middleware.RateLimiter
	Log           *logrus.Logger
}

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	setupBinding()

	s := serializer{imageURL: deps.Images.URL}
	required := middleware.AuthMiddleware(deps.Auth)
	optional := middleware.OptionalAuth(deps.Auth)

	api := router.Group("/api")
	api.GET("/health", HealthCheck(deps.DB))

	NewAuthHandler(deps.Auth, deps.Log).RegisterRoutes(api, required)
	NewUserHandler(
		service.NewUserService(deps.DB),
		service.NewSubscriptionService(deps.DB),
		s, deps.Log,
	).RegisterRoutes(api, required, optional)
	NewCatalogHandler(
		service.NewIngredientService(deps.DB),
		service.NewTagService(deps.DB),
		s, deps.Log,
	).RegisterRoutes(api)
	NewRecipeHandler(RecipeHandlerConfig{
		Recipes:      service.NewRecipeService(deps.DB, deps.Images, deps.Log),
		Favorites:    service.NewFavoriteService(deps.DB),
		ShoppingCart: service.NewShoppingCartService(deps.DB),
		ShoppingList: service.NewShoppingListService(deps.DB),
		Limiter:      deps.RecipeLimiter,
		Serializer:   s,
		Log:          deps.Log,
	}).RegisterRoutes(api, required, optional)
}

// HealthCheck reports whether the database answers.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

var bindingOnce sync.Once

// setupBinding makes gin report binding failures by json field name and
// teaches it the domain validation rules.
func setupBinding() {
	bindingOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := service.RegisterValidations(v); err != nil {
			panic(err)
		}
	})
}

// pathID parses a numeric path parameter. Non-numeric ids match no resource.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}

// recipesLimit reads the recipes_limit parameter bounding recipe previews.
func recipesLimit(c *gin.Context) (int, error) {
	n, ok := queryInt(c, "recipes_limit")
	if !ok || n < 0 {
		verr := &service.ValidationError{}
		verr.Add("recipes_limit", "a valid non-negative integer is required")
		return 0, verr
	}
	return n, nil
}
