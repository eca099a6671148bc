package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/veracity/internal/extract"
)

type handler struct {
	analyzer Analyzer
	timeout  time.Duration
	maxBody  int64
}

type analyzeRequest struct {
	Query string `json:"query"`
}

func (h *handler) analyze(c *gin.Context) {
	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `request body must be a JSON object with a "query" string`})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	analysis, err := h.analyzer.AnalyzeClaim(ctx, req.Query)
	switch {
	case errors.Is(err, extract.ErrEmptyClaim):
		c.JSON(http.StatusBadRequest, gin.H{"error": "query must not be empty"})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis did not complete"})
		return
	}

	if analysis.Cached {
		c.Header("X-Cache", "hit")
	}
	c.JSON(http.StatusOK, analysis.Payload)
}

func (h *handler) health(c *gin.Context) {
	collectors := h.analyzer.Collectors()
	if collectors == nil {
		collectors = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"collectors": collectors,
	})
}
