package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type CreateResumeInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Skills  []string `json:"skills"`
}

type ResumeService interface {
	Create(dbc dbctx.Context, userID uuid.UUID, in CreateResumeInput) (*types.Resume, error)
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Resume, error)
	Get(dbc dbctx.Context, id, userID uuid.UUID) (*types.Resume, error)
}

type resumeService struct {
	log  *logger.Logger
	repo repos.ResumeRepo
}

func NewResumeService(baseLog *logger.Logger, repo repos.ResumeRepo) ResumeService {
	return &resumeService{log: baseLog.With("service", "ResumeService"), repo: repo}
}

func (s *resumeService) Create(dbc dbctx.Context, userID uuid.UUID, in CreateResumeInput) (*types.Resume, error) {
	const op = "ResumeService.Create"
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation(op, "title is required")
	}
	skills, err := skillsJSON(in.Skills)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	return s.repo.Create(dbc, &types.Resume{
		UserID:  userID,
		Title:   title,
		Content: in.Content,
		Skills:  skills,
	})
}

func (s *resumeService) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Resume, error) {
	return s.repo.ListByUser(dbc, userID)
}

func (s *resumeService) Get(dbc dbctx.Context, id, userID uuid.UUID) (*types.Resume, error) {
	resume, err := s.repo.GetByIDForUser(dbc, id, userID)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, apperr.NotFound("ResumeService.Get", "resume not found")
	}
	return resume, nil
}
