package interview

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/dberrors"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type InterviewRepo interface {
	Create(dbc dbctx.Context, iv *types.Interview) (*types.Interview, error)
	GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.Interview, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Interview, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Interview, error)
}

type interviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterviewRepo(db *gorm.DB, baseLog *logger.Logger) InterviewRepo {
	return &interviewRepo{db: db, log: baseLog.With("repo", "InterviewRepo")}
}

// Create inserts the interview row only; questions go through QuestionRepo in the same transaction.
func (r *interviewRepo) Create(dbc dbctx.Context, iv *types.Interview) (*types.Interview, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Context()).Omit("Questions", "JobListing").Create(iv).Error; err != nil {
		return nil, dberrors.Map("InterviewRepo.Create", err, "")
	}
	return iv, nil
}

func (r *interviewRepo) GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.Interview, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out types.Interview
	err := transaction.WithContext(dbc.Context()).
		Preload("JobListing").
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, dberrors.Map("InterviewRepo.GetByIDForUser", err, "")
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *interviewRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Interview, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Interview
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Preload("JobListing").
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("InterviewRepo.GetByIDs", err, "")
	}
	return out, nil
}

func (r *interviewRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Interview, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Interview
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Preload("JobListing").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("InterviewRepo.ListByUser", err, "")
	}
	return out, nil
}
