package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodgram/backend/internal/service"
)

// CatalogHandler serves the read-only ingredient and tag lookups.
type CatalogHandler struct {
	ingredients service.IIngredientService
	tags        service.ITagService
	s           serializer
	log         *logrus.Logger
}

func NewCatalogHandler(ingredients service.IIngredientService, tags service.ITagService, s serializer, log *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{ingredients: ingredients, tags: tags, s: s, log: log}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ingredients/", h.ListIngredients)
	router.GET("/ingredients/:id/", h.GetIngredient)
	router.GET("/tags/", h.ListTags)
	router.GET("/tags/:id/", h.GetTag)
}

// ListIngredients supports a case-insensitive name prefix via ?name=.
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	items, err := h.ingredients.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.s.ingredients(items))
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.s.ingredient(*item))
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	items, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.s.tags(items))
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tag, err := h.tags.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.s.tag(*tag))
}
