package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
	}
}

// GET /api/sse/stream
// Every stream joins the caller's user channel; session, chat, result and job events all go there.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, userID.String())
	h.log.Debug("SSEStream open", "client_id", client.ID, "user_id", userID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Debug("SSEStream closed", "client_id", client.ID, "user_id", userID)
}
