package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/discovery"
	apperrors "github.com/five82/video2gif/internal/errors"
)

type conversionRequest struct {
	Path string `json:"path"`
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/config", s.handleConfig)
	api.GET("/files", s.handleFiles)
	api.POST("/conversions", s.handleCreate)
	api.GET("/conversions/:id", s.handleGet)
	api.DELETE("/conversions/:id", s.handleCancel)
	api.GET("/conversions/:id/events", s.handleEvents)
	api.GET("/conversions/:id/tiers/:tier", s.handleTier)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg)
}

// handleFiles lists accepted videos in a directory for file selection.
func (s *Server) handleFiles(c *gin.Context) {
	dir := c.DefaultQuery("dir", ".")
	abs, err := filepath.Abs(dir)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := discovery.FindVideoFiles(abs, s.cfg, nil)
	switch {
	case apperrors.IsNoFilesFound(err):
		c.JSON(http.StatusOK, gin.H{"dir": abs, "files": []string{}})
	case err != nil:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"dir": abs, "files": result.Files})
	}
}

func (s *Server) handleCreate(c *gin.Context) {
	var req conversionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	path, err := filepath.Abs(req.Path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.cfg.IsVideoExtension(filepath.Ext(path)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported video extension"})
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if info.IsDir() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is a directory"})
		return
	}

	job, err := s.Enqueue(path)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": job.ID, "status": StatusQueued})
}

// lookup resolves the :id parameter, writing a 404 when it is unknown.
func (s *Server) lookup(c *gin.Context) (*Job, bool) {
	job, ok := s.Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversion not found"})
	}
	return job, ok
}

func (s *Server) handleGet(c *gin.Context) {
	job, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, job.View())
}

func (s *Server) handleCancel(c *gin.Context) {
	job, ok := s.lookup(c)
	if !ok {
		return
	}
	if !s.Cancel(job) {
		c.JSON(http.StatusConflict, gin.H{"error": "conversion already finished", "status": job.Status()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": job.ID, "status": "canceling"})
}

// handleTier serves a produced GIF for preview.
func (s *Server) handleTier(c *gin.Context) {
	job, ok := s.lookup(c)
	if !ok {
		return
	}
	tier, err := config.ParseTier(c.Param("tier"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := job.Result()
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversion not finished"})
		return
	}
	tr, ok := res.Tier(tier)
	if !ok || !tr.Produced {
		c.JSON(http.StatusNotFound, gin.H{"error": "tier was not produced"})
		return
	}
	c.File(tr.OutputPath)
}
