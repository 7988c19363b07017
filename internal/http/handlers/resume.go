package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/interviewprep-backend/internal/http/response"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type ResumeHandler struct {
	resumes services.ResumeService
}

func NewResumeHandler(resumes services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

// POST /api/resumes
func (h *ResumeHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req services.CreateResumeInput
	if !bindJSON(c, &req) {
		return
	}
	resume, err := h.resumes.Create(requestDBC(c), userID, req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"resume": resume})
}

// GET /api/resumes
func (h *ResumeHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	resumes, err := h.resumes.List(requestDBC(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resumes": resumes})
}

// GET /api/resumes/:id
func (h *ResumeHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resume, err := h.resumes.Get(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resume": resume})
}
