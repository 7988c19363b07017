package interview

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/dberrors"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

const resultConflictMsg = "a result already exists for this interview"

type ResultRepo interface {
	// Create inserts the result and its metrics; the (interview_id, user_id) unique index makes a second insert a conflict.
	Create(dbc dbctx.Context, res *types.InterviewResult) (*types.InterviewResult, error)
	GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.InterviewResult, error)
	GetByInterviewUser(dbc dbctx.Context, interviewID, userID uuid.UUID) (*types.InterviewResult, error)
	GetBySessionForUser(dbc dbctx.Context, sessionID, userID uuid.UUID) (*types.InterviewResult, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.InterviewResult, error)
}

type resultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResultRepo(db *gorm.DB, baseLog *logger.Logger) ResultRepo {
	return &resultRepo{db: db, log: baseLog.With("repo", "ResultRepo")}
}

func (r *resultRepo) Create(dbc dbctx.Context, res *types.InterviewResult) (*types.InterviewResult, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(dbc.Context()).Transaction(func(txx *gorm.DB) error {
		metrics := res.Metrics
		if err := txx.Omit("Metrics", "Interview").Create(res).Error; err != nil {
			return err
		}
		for i := range metrics {
			metrics[i].ResultID = res.ID
			metrics[i].Position = i
		}
		if len(metrics) > 0 {
			if err := txx.Create(&metrics).Error; err != nil {
				return err
			}
		}
		res.Metrics = metrics
		return nil
	})
	if err != nil {
		return nil, dberrors.Map("ResultRepo.Create", err, resultConflictMsg)
	}
	return res, nil
}

func (r *resultRepo) GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.InterviewResult, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "ResultRepo.GetByIDForUser", "id = ? AND user_id = ?", id, userID)
}

func (r *resultRepo) GetByInterviewUser(dbc dbctx.Context, interviewID, userID uuid.UUID) (*types.InterviewResult, error) {
	if interviewID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "ResultRepo.GetByInterviewUser", "interview_id = ? AND user_id = ?", interviewID, userID)
}

func (r *resultRepo) GetBySessionForUser(dbc dbctx.Context, sessionID, userID uuid.UUID) (*types.InterviewResult, error) {
	if sessionID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "ResultRepo.GetBySessionForUser", "session_id = ? AND user_id = ?", sessionID, userID)
}

func (r *resultRepo) first(dbc dbctx.Context, op string, where string, args ...interface{}) (*types.InterviewResult, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.InterviewResult
	err := transaction.WithContext(dbc.Context()).
		Preload("Metrics", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Interview").
		Preload("Interview.JobListing").
		Where(where, args...).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, dberrors.Map(op, err, "")
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *resultRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.InterviewResult, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.InterviewResult
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Preload("Interview").
		Preload("Interview.JobListing").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("ResultRepo.ListByUser", err, "")
	}
	return out, nil
}
