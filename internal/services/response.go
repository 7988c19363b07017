package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/observability"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type SubmitResponseInput struct {
	QuestionID   uuid.UUID `json:"question_id"`
	Content      *string   `json:"content"`
	CodeResponse *string   `json:"code_response"`
	ResponseTime *int      `json:"response_time"`
}

type ResponseService interface {
	// Submit records the single answer to a question; the first answer moves a PENDING session to ONGOING.
	Submit(dbc dbctx.Context, sessionID, userID uuid.UUID, in SubmitResponseInput) (*types.Response, error)
	ListBySession(dbc dbctx.Context, sessionID, userID uuid.UUID) ([]*types.Response, error)
}

type responseService struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   repos.Repos
	notify  SessionNotifier
	metrics *observability.Metrics
}

func NewResponseService(db *gorm.DB, baseLog *logger.Logger, r repos.Repos, notify SessionNotifier, metrics *observability.Metrics) ResponseService {
	if notify == nil {
		notify = NewSessionNotifier(nil, nil)
	}
	return &responseService{
		db:      db,
		log:     baseLog.With("service", "ResponseService"),
		repos:   r,
		notify:  notify,
		metrics: metrics,
	}
}

func (s *responseService) Submit(dbc dbctx.Context, sessionID, userID uuid.UUID, in SubmitResponseInput) (*types.Response, error) {
	const op = "ResponseService.Submit"
	var (
		out     *types.Response
		started *types.InterviewSession
		qtype   types.QuestionType
	)
	err := inTx(dbc, s.db, func(txc dbctx.Context) error {
		session, err := s.repos.Sessions.GetByIDForUser(txc, sessionID, userID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound(op, "interview session not found")
		}
		if session.Status.Completed() {
			return apperr.InvalidState(op, "interview session has completed")
		}
		if session.Status == types.SessionEnded {
			return apperr.InvalidState(op, "interview session has ended")
		}

		question, err := s.repos.Questions.GetInInterview(txc, session.InterviewID, in.QuestionID)
		if err != nil {
			return err
		}
		if question == nil {
			return apperr.NotFound(op, "question not found in this interview")
		}
		if err := validateAnswer(op, question.Type, in); err != nil {
			return err
		}

		// Locks the session row until commit so a concurrent End cannot interleave.
		ok, err := s.repos.Sessions.UpdateFieldsUnlessStatus(txc, session.ID, userID, endedStatuses, nil)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState(op, "interview session has ended")
		}

		resp := &types.Response{
			SessionID:    session.ID,
			QuestionID:   question.ID,
			Content:      strings.TrimSpace(deref(in.Content)),
			CodeResponse: in.CodeResponse,
			ResponseTime: in.ResponseTime,
		}
		if _, err := s.repos.Responses.Create(txc, resp); err != nil {
			return err
		}

		if session.Status == types.SessionPending {
			ok, err := s.repos.Sessions.Transition(txc, session.ID,
				[]types.SessionStatus{types.SessionPending}, types.SessionOngoing, nil)
			if err != nil {
				return err
			}
			if ok {
				session.Status = types.SessionOngoing
				started = session
			}
		}
		resp.Question = question
		qtype = question.Type
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncResponse(string(qtype))
	if started != nil {
		s.notify.StatusChanged(dbc.Context(), started, types.SessionPending)
	}
	return out, nil
}

var (
	endedStatuses = []types.SessionStatus{
		types.SessionEnded, types.SessionResultProcessing, types.SessionResultProcessed, types.SessionResultFailed,
	}
	completedStatuses = []types.SessionStatus{
		types.SessionResultProcessing, types.SessionResultProcessed, types.SessionResultFailed,
	}
)

func validateAnswer(op string, qtype types.QuestionType, in SubmitResponseInput) error {
	switch qtype {
	case types.QuestionCode:
		if strings.TrimSpace(deref(in.CodeResponse)) == "" {
			return apperr.Validation(op, "code_response is required for CODE questions")
		}
	default:
		if strings.TrimSpace(deref(in.Content)) == "" {
			return apperr.Validation(op, "content is required for VERBAL questions")
		}
	}
	if in.ResponseTime != nil && *in.ResponseTime < 0 {
		return apperr.Validation(op, "response_time must not be negative")
	}
	return nil
}

func (s *responseService) ListBySession(dbc dbctx.Context, sessionID, userID uuid.UUID) ([]*types.Response, error) {
	session, err := s.repos.Sessions.GetByIDForUser(dbc, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NotFound("ResponseService.ListBySession", "interview session not found")
	}
	return s.repos.Responses.ListBySession(dbc, session.ID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
