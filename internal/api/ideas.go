package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
	"github.com/BerylCAtieno/binko-idea-agent/internal/store"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxBulkIdeas    = 1000
)

func queryInt(c *gin.Context, key string, def, min, max int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, errors.InvalidInput(key + " must be an integer between " + strconv.Itoa(min) + " and " + strconv.Itoa(max))
	}
	return v, nil
}

func (s *Server) ListIdeas(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0, 0, 1<<30)
	if err != nil {
		s.writeError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", defaultPageSize, 1, maxPageSize)
	if err != nil {
		s.writeError(c, err)
		return
	}

	ideas, total, err := s.ideas.List(c.Request.Context(), store.ListQuery{
		Skip:       skip,
		Limit:      limit,
		Niche:      c.Query("niche"),
		Difficulty: c.Query("difficulty"),
		IdeaType:   c.Query("idea_type"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas, "total": total})
}

func (s *Server) GetIdea(c *gin.Context) {
	idea, err := s.ideas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, idea)
}

func (s *Server) CreateIdea(c *gin.Context) {
	var idea models.SourceIdea
	if err := c.ShouldBindJSON(&idea); err != nil {
		s.writeError(c, errors.InvalidInput("invalid idea payload: "+err.Error()))
		return
	}
	if err := idea.Validate(); err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.ideas.Create(c.Request.Context(), &idea); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idea)
}

func (s *Server) BulkCreateIdeas(c *gin.Context) {
	var ideas []models.SourceIdea
	if err := c.ShouldBindJSON(&ideas); err != nil {
		s.writeError(c, errors.InvalidInput("invalid ideas payload: "+err.Error()))
		return
	}
	if len(ideas) > maxBulkIdeas {
		s.writeError(c, errors.InvalidInput("too many ideas in one request"))
		return
	}
	for i := range ideas {
		if err := ideas[i].Validate(); err != nil {
			s.writeError(c, errors.Wrapf(err, "idea %d", i))
			return
		}
	}
	n, err := s.ideas.BulkCreate(c.Request.Context(), ideas)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": n})
}

func (s *Server) DeleteIdea(c *gin.Context) {
	if err := s.ideas.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
