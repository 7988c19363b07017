package interview

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/dberrors"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error)
	ListByInterview(dbc dbctx.Context, interviewID uuid.UUID) ([]*types.Question, error)
	ListByInterviews(dbc dbctx.Context, interviewIDs []uuid.UUID) ([]*types.Question, error)
	GetInInterview(dbc dbctx.Context, interviewID, questionID uuid.UUID) (*types.Question, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(questions) == 0 {
		return []*types.Question{}, nil
	}
	if err := transaction.WithContext(dbc.Context()).Create(&questions).Error; err != nil {
		return nil, dberrors.Map("QuestionRepo.Create", err, "question order already taken")
	}
	return questions, nil
}

func (r *questionRepo) ListByInterview(dbc dbctx.Context, interviewID uuid.UUID) ([]*types.Question, error) {
	return r.ListByInterviews(dbc, []uuid.UUID{interviewID})
}

func (r *questionRepo) ListByInterviews(dbc dbctx.Context, interviewIDs []uuid.UUID) ([]*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Question
	if len(interviewIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Where("interview_id IN ?", interviewIDs).
		Order("interview_id ASC, position ASC").
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("QuestionRepo.ListByInterviews", err, "")
	}
	return out, nil
}

func (r *questionRepo) GetInInterview(dbc dbctx.Context, interviewID, questionID uuid.UUID) (*types.Question, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if interviewID == uuid.Nil || questionID == uuid.Nil {
		return nil, nil
	}
	var out types.Question
	err := transaction.WithContext(dbc.Context()).
		Where("id = ? AND interview_id = ?", questionID, interviewID).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, dberrors.Map("QuestionRepo.GetInInterview", err, "")
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}
