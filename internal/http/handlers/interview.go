package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/interviewprep-backend/internal/http/response"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type InterviewHandler struct {
	interviews services.InterviewService
}

func NewInterviewHandler(interviews services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// POST /api/interviews
func (h *InterviewHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req services.CreateInterviewInput
	if !bindJSON(c, &req) {
		return
	}
	iv, err := h.interviews.Create(requestDBC(c), userID, req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"interview": iv})
}

// GET /api/interviews
func (h *InterviewHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	ivs, err := h.interviews.List(requestDBC(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"interviews": ivs})
}

// GET /api/interviews/:id
func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	iv, err := h.interviews.Get(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"interview": iv})
}

// GET /api/interviews/:id/questions
func (h *InterviewHandler) ListQuestions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	qs, err := h.interviews.ListQuestions(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": qs})
}
