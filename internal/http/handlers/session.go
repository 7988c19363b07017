package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/interviewprep-backend/internal/http/response"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type SessionHandler struct {
	sessions  services.SessionService
	responses services.ResponseService
	chat      services.ChatService
	results   services.ResultService
}

func NewSessionHandler(sessions services.SessionService, responses services.ResponseService, chat services.ChatService, results services.ResultService) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		responses: responses,
		chat:      chat,
		results:   results,
	}
}

// POST /api/interview-sessions
func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		InterviewID uuid.UUID `json:"interview_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.sessions.Create(requestDBC(c), userID, req.InterviewID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// GET /api/interview-sessions
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessions, err := h.sessions.List(requestDBC(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}

// GET /api/interview-sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.sessions.Get(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": detail})
}

// PUT /api/interview-sessions/:id
func (h *SessionHandler) UpdateState(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateSessionStateInput
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.sessions.UpdateState(requestDBC(c), id, userID, req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// PUT /api/interview-sessions/:id/end
func (h *SessionHandler) End(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	session, err := h.sessions.End(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// POST /api/interview-sessions/:id/responses
func (h *SessionHandler) SubmitResponse(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.SubmitResponseInput
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.responses.Submit(requestDBC(c), id, userID, req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"response": resp})
}

// GET /api/interview-sessions/:id/responses
func (h *SessionHandler) ListResponses(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resps, err := h.responses.ListBySession(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"responses": resps})
}

// POST /api/interview-sessions/:id/chat
func (h *SessionHandler) PostChat(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.chat.Post(requestDBC(c), id, userID, req.Content)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": msg})
}

// GET /api/interview-sessions/:id/chat
func (h *SessionHandler) ChatHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	msgs, err := h.chat.History(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}

// GET /api/interview-sessions/:id/result
func (h *SessionHandler) Result(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	res, err := h.results.GetForSession(requestDBC(c), id, userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}
