package api

import (
	"errors"
	"net/http"
	"time"

	"formpilot/application/scripts"
	"formpilot/domain/entities"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

type runRequestBody struct {
	SchoolID   string                  `json:"schoolId"`
	TemplateID string                  `json:"templateId"`
	Login      *entities.LoginOverride `json:"login,omitempty"`
}

type scriptsResponse struct {
	Scripts []scripts.Descriptor `json:"scripts"`
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleScripts(c *gin.Context) {
	c.JSON(http.StatusOK, scriptsResponse{Scripts: s.runner.Scripts()})
}

// handleRun - POST /api/v1/runs
func (s *Server) handleRun(c *gin.Context) {
	var body runRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return
	}

	if !s.tryAcquire() {
		if s.opts.Rejections != nil {
			s.opts.Rejections.RunRejected()
		}
		c.Header("Retry-After", "30")
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "all automation slots are busy, retry later"})
		return
	}
	defer s.release()

	req := entities.RunRequest{
		SchoolID:   body.SchoolID,
		TemplateID: body.TemplateID,
		UserID:     c.GetString(userIDKey),
		Login:      body.Login,
	}

	res, err := s.runner.Run(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.WithError(err).WithField("school_id", req.SchoolID).Error("Run could not be dispatched")
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return
	}

	if !res.Success {
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// statusFor maps pre-dispatch errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
