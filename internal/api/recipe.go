package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

type RecipeHandlerConfig struct {
	Recipes      service.IRecipeService
	Favorites    service.ICollectionService
	ShoppingCart service.ICollectionService
	ShoppingList service.IShoppingListService
	// Limiter bounds recipe creation; nil disables it.
	Limiter    *middleware.RateLimiter
	Serializer serializer
	Log        *logrus.Logger
}

type RecipeHandler struct {
	recipes      service.IRecipeService
	favorites    service.ICollectionService
	shoppingCart service.ICollectionService
	shoppingList service.IShoppingListService
	limiter      *middleware.RateLimiter
	s            serializer
	log          *logrus.Logger
}

func NewRecipeHandler(cfg RecipeHandlerConfig) *RecipeHandler {
	return &RecipeHandler{
		recipes:      cfg.Recipes,
		favorites:    cfg.Favorites,
		shoppingCart: cfg.ShoppingCart,
		shoppingList: cfg.ShoppingList,
		limiter:      cfg.Limiter,
		s:            cfg.Serializer,
		log:          cfg.Log,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, required, optional gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/", optional, h.ListRecipes)
		recipes.POST("/", required, h.limiter.Middleware(), h.CreateRecipe)
		recipes.GET("/download_shopping_cart/", required, h.DownloadShoppingCart)
		recipes.GET("/:id/", optional, h.GetRecipe)
		recipes.PATCH("/:id/", required, h.UpdateRecipe)
		recipes.DELETE("/:id/", required, h.DeleteRecipe)
		recipes.POST("/:id/favorite/", required, h.add(h.favorites))
		recipes.DELETE("/:id/favorite/", required, h.remove(h.favorites))
		recipes.POST("/:id/shopping_cart/", required, h.add(h.shoppingCart))
		recipes.DELETE("/:id/shopping_cart/", required, h.remove(h.shoppingCart))
	}
}

// ListRecipes supports the author, tags, is_favorited and is_in_shopping_cart
// filters plus page and limit.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	viewerID := middleware.UserID(c)

	filter := types.RecipeFilter{TagSlugs: c.QueryArray("tags")}
	if v := c.Query("author"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respondError(c, h.log, &service.ValidationError{Fields: map[string]string{"author": "a valid user id is required"}})
			return
		}
		filter.AuthorID = uint(id)
	}
	if viewerID != 0 {
		if queryFlag(c, "is_favorited") {
			filter.FavoritedBy = viewerID
		}
		if queryFlag(c, "is_in_shopping_cart") {
			filter.InCartOf = viewerID
		}
	}

	result, err := h.recipes.ListRecipes(c.Request.Context(), viewerID, filter, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, result.Count, h.s.recipes(result.Items)))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.s.recipe(*recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.s.recipe(*recipe))
}

// UpdateRecipe replaces the recipe fields, ingredient lines and tags. The
// image is kept when the request omits it.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.s.recipe(*recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) add(collection service.ICollectionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		recipe, err := collection.Add(c.Request.Context(), middleware.UserID(c), id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, h.s.recipeShort(*recipe))
	}
}

func (h *RecipeHandler) remove(collection service.ICollectionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		if err := collection.Remove(c.Request.Context(), middleware.UserID(c), id); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart returns the consolidated shopping list as a text file.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.shoppingList.Build(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var buf bytes.Buffer
	if err := service.Render(&buf, items); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

// queryFlag reads boolean filters given as 1/0 or true/false.
func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}
