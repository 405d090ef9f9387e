package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/limaJavier/groupscheduling/internal/cache"
	"github.com/limaJavier/groupscheduling/internal/ingest"
	"github.com/limaJavier/groupscheduling/internal/metrics"
	"github.com/limaJavier/groupscheduling/pkg/model"
)

const cachePingTimeout = time.Second

// upload handles POST /api/upload: a roster file in the "file" field together with the constraints as form fields
func (s *Server) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	} else if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer file.Close()

	input, err := ingest.ParseUpload(fileHeader.Filename, file, url.Values(c.Request.MultipartForm.Value))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.solve(c, input)
}

// schedule handles POST /api/schedule: a JSON document holding student_data and constraints
func (s *Server) schedule(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	input, err := model.InputFromReader(c.Request.Body)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.solve(c, input)
}

// health handles GET /api/health. The cache is optional, so an unreachable one is reported without failing the check
func (s *Server) health(c *gin.Context) {
	body := gin.H{"status": "group scheduler is running"}
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cachePingTimeout)
		defer cancel()

		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn("cache unreachable", "request_id", c.GetString(requestIDKey), "error", err)
			body["cache"] = "unreachable"
		} else {
			body["cache"] = "reachable"
		}
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) solve(c *gin.Context, input model.ModelInput) {
	ctx := c.Request.Context()

	key := s.lookup(c, input)
	if c.IsAborted() {
		return
	}

	result, err := s.scheduler.Schedule(ctx, input)
	if err != nil {
		s.fail(c, err)
		return
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("cannot cache result", "request_id", c.GetString(requestIDKey), "error", err)
		}
	}
	c.JSON(http.StatusOK, result)
}

// lookup answers from the cache when it holds the input's result, aborting the request. Otherwise it returns the key
// the result should be stored under, or "" when caching is off or failing
func (s *Server) lookup(c *gin.Context, input model.ModelInput) string {
	if s.cache == nil {
		return ""
	}

	key, err := cache.Key(input)
	if err != nil {
		s.logger.Warn("cannot derive cache key", "request_id", c.GetString(requestIDKey), "error", err)
		return ""
	}

	result, err := s.cache.Get(c.Request.Context(), key)
	switch {
	case err == nil:
		s.recordCacheLookup(metrics.CacheHit)
		c.AbortWithStatusJSON(http.StatusOK, result)
		return ""
	case errors.Is(err, cache.ErrCacheMiss):
		s.recordCacheLookup(metrics.CacheMiss)
	default:
		s.recordCacheLookup(metrics.CacheError)
		s.logger.Warn("cache lookup failed", "request_id", c.GetString(requestIDKey), "error", err)
	}
	return key
}

func (s *Server) recordCacheLookup(result string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(result)
	}
}

// fail maps err to a status code: precondition violations are the client's fault, infeasibility is reported as an
// unprocessable request and anything else is a server error
func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", c.GetString(requestIDKey), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case model.IsPrecondition(err):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNoValidAssignment):
		return http.StatusUnprocessableEntity
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
