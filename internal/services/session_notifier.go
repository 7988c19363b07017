package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/observability"
	"github.com/yungbote/interviewprep-backend/internal/realtime"
)

// SessionNotifier reports lifecycle events on the owner's realtime channel and in metrics.
type SessionNotifier interface {
	StatusChanged(ctx context.Context, session *types.InterviewSession, from types.SessionStatus)
	ChatMessageCreated(ctx context.Context, userID uuid.UUID, msg *types.ChatMessage)
	ResultReady(ctx context.Context, userID uuid.UUID, result *types.InterviewResult)
}

type sessionNotifier struct {
	emit    SSEEmitter
	metrics *observability.Metrics
}

func NewSessionNotifier(emit SSEEmitter, metrics *observability.Metrics) SessionNotifier {
	if emit == nil {
		emit = NoopEmitter()
	}
	return &sessionNotifier{emit: emit, metrics: metrics}
}

func (n *sessionNotifier) StatusChanged(ctx context.Context, session *types.InterviewSession, from types.SessionStatus) {
	if session == nil {
		return
	}
	n.metrics.IncSessionTransition(string(from), string(session.Status))
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: session.UserID.String(),
		Event:   realtime.SSEEventSessionStatusChanged,
		Data: map[string]any{
			"session_id": session.ID,
			"from":       from,
			"to":         session.Status,
			"ended_at":   session.EndedAt,
		},
	})
}

func (n *sessionNotifier) ChatMessageCreated(ctx context.Context, userID uuid.UUID, msg *types.ChatMessage) {
	if msg == nil {
		return
	}
	n.metrics.IncChatMessage(msg.IsFromUser)
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventChatMessageCreated,
		Data:    map[string]any{"message": msg},
	})
}

func (n *sessionNotifier) ResultReady(ctx context.Context, userID uuid.UUID, result *types.InterviewResult) {
	if result == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: userID.String(),
		Event:   realtime.SSEEventResultReady,
		Data: map[string]any{
			"result_id":     result.ID,
			"session_id":    result.SessionID,
			"interview_id":  result.InterviewID,
			"overall_score": result.OverallScore,
		},
	})
}
