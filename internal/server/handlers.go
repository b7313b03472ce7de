package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lox/sambridge/internal/journal"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/store"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDeclare(c *gin.Context) {
	var req provider.DeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if err := ValidateDeclaration(&req); err != nil {
		s.renderError(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.JSON(http.StatusOK, s.bridge.Declare(c.Request.Context(), req))
}

func (s *Server) handleMove(c *gin.Context) {
	var req provider.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if err := ValidateMove(&req); err != nil {
		s.renderError(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.JSON(http.StatusOK, s.bot.Play(c.Request.Context(), req))
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tiers": s.bridge.Status(),
		"bot":   s.bot.Info(),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	resp := gin.H{"bridge": s.bridge.Stats()}
	if s.outcomes != nil {
		acc, err := s.outcomes.AccuracyStats(c.Request.Context())
		if err != nil {
			s.renderError(c, http.StatusInternalServerError, err)
			return
		}
		resp["accuracy"] = acc
	}
	c.JSON(http.StatusOK, resp)
}

type outcomeRequest struct {
	Correct *bool `json:"correct" binding:"required"`
}

func (s *Server) handleOutcome(c *gin.Context) {
	if s.outcomes == nil {
		s.renderError(c, http.StatusNotImplemented, errors.New("decision store is disabled"))
		return
	}
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	id := c.Param("id")
	err := s.outcomes.MarkOutcome(c.Request.Context(), id, *req.Correct)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.renderError(c, http.StatusNotFound, err)
	case err != nil:
		s.renderError(c, http.StatusInternalServerError, err)
	default:
		s.logger.Debug("Outcome recorded", "id", id, "correct", *req.Correct)
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleBaoSam(c *gin.Context) {
	if s.journal == nil {
		s.renderError(c, http.StatusNotImplemented, errors.New("journal is disabled"))
		return
	}
	var rec journal.BaoSam
	if err := c.ShouldBindJSON(&rec); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if err := rec.Validate(); err != nil {
		s.renderError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if err := s.journal.RecordBaoSam(rec); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

func (s *Server) handleBaoSamStats(c *gin.Context) {
	if s.journal == nil {
		s.renderError(c, http.StatusNotImplemented, errors.New("journal is disabled"))
		return
	}
	stats, err := s.journal.Stats()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
