package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
	"github.com/BerylCAtieno/binko-idea-agent/internal/store"
)

// Generator is the generation pipeline as seen by the HTTP layer.
type Generator interface {
	Generate(ctx context.Context, profile models.UserProfile, numIdeas int) (*models.GenerationResult, error)
}

type Options struct {
	CORSOrigins        []string
	RateLimitPerMinute int
}

type Server struct {
	ideas     store.IdeaStore
	generator Generator
	logger    *zap.Logger
}

// NewRouter builds the gin engine with the REST surface mounted.
func NewRouter(opts Options, ideas store.IdeaStore, generator Generator, logger *zap.Logger) *gin.Engine {
	s := &Server{ideas: ideas, generator: generator, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), CORS(opts.CORSOrigins))

	router.GET("/", s.Root)
	router.GET("/health", s.Health)

	api := router.Group("/api")
	{
		ideasGroup := api.Group("/ideas")
		ideasGroup.GET("", s.ListIdeas)
		ideasGroup.GET("/:id", s.GetIdea)
		ideasGroup.POST("", s.CreateIdea)
		ideasGroup.POST("/bulk", s.BulkCreateIdeas)
		ideasGroup.DELETE("/:id", s.DeleteIdea)

		api.POST("/generate", RateLimit(opts.RateLimitPerMinute), s.Generate)
	}

	return router
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "binko.ai"})
}

func (s *Server) Health(c *gin.Context) {
	if err := s.ideas.Ping(c.Request.Context()); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		c.String(http.StatusServiceUnavailable, "UNAVAILABLE")
		return
	}
	c.String(http.StatusOK, "OK")
}

func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeConflict:
		return http.StatusConflict
	case errors.CodeDatabaseError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	_ = c.Error(err)

	detail := err.Error()
	if status >= http.StatusInternalServerError {
		detail = http.StatusText(status)
	}
	c.JSON(status, gin.H{"detail": detail, "code": code})
}
