// Package server exposes the scheduler over HTTP.
package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/limaJavier/groupscheduling/internal/cache"
	"github.com/limaJavier/groupscheduling/internal/metrics"
	"github.com/limaJavier/groupscheduling/pkg/model"
)

const defaultMaxUploadBytes = 8 << 20

type Server struct {
	scheduler      model.Scheduler
	cache          cache.Cache
	cacheTTL       time.Duration
	metrics        *metrics.Manager
	logger         *slog.Logger
	maxUploadBytes int64
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCache serves repeated inputs from c. Results live for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache, s.cacheTTL = c, ttl
	}
}

func WithMetrics(manager *metrics.Manager) Option {
	return func(s *Server) {
		s.metrics = manager
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxUploadBytes caps the size of request bodies.
func WithMaxUploadBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxUploadBytes = limit
		}
	}
}

func New(scheduler model.Scheduler, opts ...Option) *Server {
	s := &Server{
		scheduler:      scheduler,
		logger:         slog.Default(),
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine serving every route.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), cors(), s.accessLog())
	if s.metrics != nil {
		router.Use(s.instrument())
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.POST("/upload", s.upload)
		api.POST("/schedule", s.schedule)
		api.GET("/health", s.health)
	}

	return router
}
