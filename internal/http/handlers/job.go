package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/interviewprep-backend/internal/http/response"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type JobHandler struct {
	jobs services.JobService
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	job, err := h.jobs.GetByIDForUser(requestDBC(c), jobID, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
