package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type CreateInterviewInput struct {
	JobListingID uuid.UUID  `json:"job_listing_id"`
	ResumeID     *uuid.UUID `json:"resume_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
}

type InterviewService interface {
	Create(dbc dbctx.Context, userID uuid.UUID, in CreateInterviewInput) (*types.Interview, error)
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Interview, error)
	Get(dbc dbctx.Context, id, userID uuid.UUID) (*types.Interview, error)
	ListQuestions(dbc dbctx.Context, id, userID uuid.UUID) ([]*types.Question, error)
}

type interviewService struct {
	db        *gorm.DB
	log       *logger.Logger
	repos     repos.Repos
	generator QuestionGenerator
}

func NewInterviewService(db *gorm.DB, baseLog *logger.Logger, r repos.Repos, generator QuestionGenerator) InterviewService {
	if generator == nil {
		generator = TemplateQuestionGenerator{}
	}
	return &interviewService{
		db:        db,
		log:       baseLog.With("service", "InterviewService"),
		repos:     r,
		generator: generator,
	}
}

func (s *interviewService) Create(dbc dbctx.Context, userID uuid.UUID, in CreateInterviewInput) (*types.Interview, error) {
	const op = "InterviewService.Create"
	listing, err := s.repos.JobListings.GetByIDForUser(dbc, in.JobListingID, userID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperr.NotFound(op, "job listing not found")
	}
	var resume *types.Resume
	if in.ResumeID != nil && *in.ResumeID != uuid.Nil {
		resume, err = s.repos.Resumes.GetByIDForUser(dbc, *in.ResumeID, userID)
		if err != nil {
			return nil, err
		}
		if resume == nil {
			return nil, apperr.NotFound(op, "resume not found")
		}
	}

	// Generation may call out to a model; keep it outside the transaction.
	questions, err := s.generator.Generate(dbc.Context(), listing, resume)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("generate questions: %w", err))
	}
	if len(questions) == 0 {
		return nil, apperr.Internal(op, fmt.Errorf("generate questions: empty question set"))
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = listing.Title + " Interview"
	}
	iv := &types.Interview{
		UserID:       userID,
		JobListingID: listing.ID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
	}
	if resume != nil {
		iv.ResumeID = &resume.ID
	}

	err = inTx(dbc, s.db, func(txc dbctx.Context) error {
		if _, err := s.repos.Interviews.Create(txc, iv); err != nil {
			return err
		}
		for _, q := range questions {
			q.InterviewID = iv.ID
		}
		_, err := s.repos.Questions.Create(txc, questions)
		return err
	})
	if err != nil {
		return nil, err
	}
	iv.JobListing = listing
	iv.Questions = make([]types.Question, 0, len(questions))
	for _, q := range questions {
		iv.Questions = append(iv.Questions, *q)
	}
	s.log.Info("Interview created", "interview_id", iv.ID, "questions", len(questions))
	return iv, nil
}

func (s *interviewService) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Interview, error) {
	return s.repos.Interviews.ListByUser(dbc, userID)
}

func (s *interviewService) Get(dbc dbctx.Context, id, userID uuid.UUID) (*types.Interview, error) {
	iv, err := s.repos.Interviews.GetByIDForUser(dbc, id, userID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, apperr.NotFound("InterviewService.Get", "interview not found")
	}
	questions, err := s.repos.Questions.ListByInterview(dbc, iv.ID)
	if err != nil {
		return nil, err
	}
	iv.Questions = make([]types.Question, 0, len(questions))
	for _, q := range questions {
		iv.Questions = append(iv.Questions, *q)
	}
	return iv, nil
}

func (s *interviewService) ListQuestions(dbc dbctx.Context, id, userID uuid.UUID) ([]*types.Question, error) {
	iv, err := s.repos.Interviews.GetByIDForUser(dbc, id, userID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, apperr.NotFound("InterviewService.ListQuestions", "interview not found")
	}
	return s.repos.Questions.ListByInterview(dbc, iv.ID)
}
