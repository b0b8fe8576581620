package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Options are the collaborators of the HTTP server.
type Options struct {
	Config        *config.Config
	DB            *gorm.DB
	Auth          service.IAuthService
	Images        service.ImageStore
	RecipeLimiter *middleware.RateLimiter
	Log           *logrus.Logger
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logrus.Logger
}

// New builds the router with the middleware chain and every route.
func New(opts Options) *Server {
	cfg := opts.Config
	metrics := middleware.NewMetrics()

	router := gin.New()
	router.Use(
		middleware.Recovery(opts.Log),
		middleware.RequestLogger(opts.Log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.BodyLimit(middleware.MaxRequestBody),
		metrics.Middleware(),
	)

	router.GET("/health", api.HealthCheck(opts.DB))
	router.GET("/metrics", metrics.Handler())
	if cfg.StorageDriver == "local" {
		router.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	api.RegisterRoutes(router, api.Dependencies{
		DB:            opts.DB,
		Auth:          opts.Auth,
		Images:        opts.Images,
		RecipeLimiter: opts.RecipeLimiter,
		Log:           opts.Log,
	})

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log: opts.Log,
	}
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.http.Addr).Info("starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
