package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
	"github.com/BerylCAtieno/binko-idea-agent/internal/models"
)

func (s *Server) Generate(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.InvalidInput("invalid generation request: "+err.Error()))
		return
	}

	result, err := s.generator.Generate(c.Request.Context(), req.Profile, req.Count())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
