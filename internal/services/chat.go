package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

// companionReplyLimit is the largest message count after which a user message still earns a companion reply.
const companionReplyLimit = 2

type ChatService interface {
	// Post appends a user message. Chat stays open through ENDED and closes once result processing starts.
	Post(dbc dbctx.Context, sessionID, userID uuid.UUID, content string) (*types.ChatMessage, error)
	History(dbc dbctx.Context, sessionID, userID uuid.UUID) ([]*types.ChatMessage, error)
	// AppendCompanionReply stores a non-user message; it reports false when the session has completed.
	AppendCompanionReply(dbc dbctx.Context, sessionID uuid.UUID, content string) (*types.ChatMessage, bool, error)
}

type chatService struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Repos
	jobs   JobService
	notify SessionNotifier
}

func NewChatService(db *gorm.DB, baseLog *logger.Logger, r repos.Repos, jobs JobService, notify SessionNotifier) ChatService {
	if notify == nil {
		notify = NewSessionNotifier(nil, nil)
	}
	return &chatService{
		db:     db,
		log:    baseLog.With("service", "ChatService"),
		repos:  r,
		jobs:   jobs,
		notify: notify,
	}
}

func (s *chatService) Post(dbc dbctx.Context, sessionID, userID uuid.UUID, content string) (*types.ChatMessage, error) {
	const op = "ChatService.Post"
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation(op, "content is required")
	}
	var out *types.ChatMessage
	err := inTx(dbc, s.db, func(txc dbctx.Context) error {
		session, err := s.repos.Sessions.GetByIDForUser(txc, sessionID, userID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound(op, "interview session not found")
		}
		ok, err := s.repos.Sessions.UpdateFieldsUnlessStatus(txc, session.ID, userID, completedStatuses, nil)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState(op, "interview session has completed")
		}
		msg := &types.ChatMessage{SessionID: session.ID, Content: content, IsFromUser: true}
		if _, err := s.repos.ChatMessages.Create(txc, msg); err != nil {
			return err
		}
		n, err := s.repos.ChatMessages.CountBySession(txc, session.ID)
		if err != nil {
			return err
		}
		if n <= companionReplyLimit && s.jobs != nil {
			if _, err := s.jobs.Enqueue(txc, userID, JobTypeChatReply, EntityTypeSession, &session.ID, map[string]any{
				"session_id": session.ID.String(),
				"message_id": msg.ID.String(),
			}); err != nil {
				return err
			}
		}
		out = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify.ChatMessageCreated(dbc.Context(), userID, out)
	return out, nil
}

func (s *chatService) History(dbc dbctx.Context, sessionID, userID uuid.UUID) ([]*types.ChatMessage, error) {
	session, err := s.repos.Sessions.GetByIDForUser(dbc, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NotFound("ChatService.History", "interview session not found")
	}
	return s.repos.ChatMessages.ListBySession(dbc, session.ID)
}

func (s *chatService) AppendCompanionReply(dbc dbctx.Context, sessionID uuid.UUID, content string) (*types.ChatMessage, bool, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, false, apperr.Validation("ChatService.AppendCompanionReply", "content is required")
	}
	var (
		out    *types.ChatMessage
		userID uuid.UUID
	)
	err := inTx(dbc, s.db, func(txc dbctx.Context) error {
		session, err := s.repos.Sessions.GetByID(txc, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound("ChatService.AppendCompanionReply", "interview session not found")
		}
		ok, err := s.repos.Sessions.UpdateFieldsUnlessStatus(txc, session.ID, session.UserID, completedStatuses, nil)
		if err != nil || !ok {
			return err
		}
		msg := &types.ChatMessage{SessionID: session.ID, Content: content, IsFromUser: false}
		if _, err := s.repos.ChatMessages.Create(txc, msg); err != nil {
			return err
		}
		out = msg
		userID = session.UserID
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if out == nil {
		return nil, false, nil
	}
	s.notify.ChatMessageCreated(dbc.Context(), userID, out)
	return out, true, nil
}
