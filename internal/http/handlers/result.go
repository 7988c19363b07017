package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/interviewprep-backend/internal/http/response"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type ResultHandler struct {
	results services.ResultService
	metrics services.UserMetricsService
}

func NewResultHandler(results services.ResultService, metrics services.UserMetricsService) *ResultHandler {
	return &ResultHandler{results: results, metrics: metrics}
}

// GET /api/interview-results
func (h *ResultHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	results, err := h.results.List(requestDBC(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}

// GET /api/interview-results/:id
func (h *ResultHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.results.Get(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

// GET /api/metrics/user
func (h *ResultHandler) UserMetrics(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	m, err := h.metrics.Get(requestDBC(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metrics": m})
}
