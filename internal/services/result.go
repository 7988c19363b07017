package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type ResultService interface {
	Get(dbc dbctx.Context, resultID, userID uuid.UUID) (*types.InterviewResult, error)
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.InterviewResult, error)
	// GetForSession is the polling endpoint: NotFound until the session reaches RESULT_PROCESSED.
	GetForSession(dbc dbctx.Context, sessionID, userID uuid.UUID) (*types.InterviewResult, error)
}

type resultService struct {
	log   *logger.Logger
	repos repos.Repos
}

func NewResultService(baseLog *logger.Logger, r repos.Repos) ResultService {
	return &resultService{log: baseLog.With("service", "ResultService"), repos: r}
}

func (s *resultService) Get(dbc dbctx.Context, resultID, userID uuid.UUID) (*types.InterviewResult, error) {
	res, err := s.repos.Results.GetByIDForUser(dbc, resultID, userID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperr.NotFound("ResultService.Get", "interview result not found")
	}
	return res, nil
}

func (s *resultService) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.InterviewResult, error) {
	return s.repos.Results.ListByUser(dbc, userID)
}

func (s *resultService) GetForSession(dbc dbctx.Context, sessionID, userID uuid.UUID) (*types.InterviewResult, error) {
	const op = "ResultService.GetForSession"
	session, err := s.repos.Sessions.GetByIDForUser(dbc, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NotFound(op, "interview session not found")
	}
	switch session.Status {
	case types.SessionResultProcessed:
	case types.SessionResultFailed:
		return nil, apperr.InvalidState(op, "result processing failed for this session")
	default:
		return nil, apperr.NotFound(op, "interview result is not ready")
	}
	res, err := s.repos.Results.GetBySessionForUser(dbc, session.ID, userID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperr.NotFound(op, "interview result not found")
	}
	return res, nil
}
