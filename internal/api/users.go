package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts and subscriptions.
type UserHandler struct {
	users         service.IUserService
	subscriptions service.ISubscriptionService
	s             serializer
	log           *logrus.Logger
}

func NewUserHandler(users service.IUserService, subscriptions service.ISubscriptionService, s serializer, log *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, subscriptions: subscriptions, s: s, log: log}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, required, optional gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("/", optional, h.List)
		users.POST("/", h.Register)
		users.GET("/me/", required, h.Me)
		users.POST("/set_password/", required, h.SetPassword)
		users.GET("/subscriptions/", required, h.Subscriptions)
		users.GET("/:id/", optional, h.Get)
		users.POST("/:id/subscribe/", required, h.Subscribe)
		users.DELETE("/:id/subscribe/", required, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.s.user(*user, false))
}

func (h *UserHandler) List(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	result, err := h.users.List(c.Request.Context(), middleware.UserID(c), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, result.Count, h.s.users(result.Items)))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.s.user(user.User, user.IsSubscribed))
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	user, err := h.users.Get(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.s.user(user.User, false))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.SetPassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the user follows.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	result, err := h.subscriptions.List(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, result.Count, h.s.subscriptions(result.Items)))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	details, err := h.subscriptions.Subscribe(c.Request.Context(), middleware.UserID(c), authorID, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.s.subscription(*details))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), middleware.UserID(c), authorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
