package interview

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/dberrors"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type ResumeRepo interface {
	Create(dbc dbctx.Context, resume *types.Resume) (*types.Resume, error)
	GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.Resume, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Resume, error)
}

type resumeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResumeRepo(db *gorm.DB, baseLog *logger.Logger) ResumeRepo {
	return &resumeRepo{db: db, log: baseLog.With("repo", "ResumeRepo")}
}

func (r *resumeRepo) Create(dbc dbctx.Context, resume *types.Resume) (*types.Resume, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Context()).Create(resume).Error; err != nil {
		return nil, dberrors.Map("ResumeRepo.Create", err, "")
	}
	return resume, nil
}

func (r *resumeRepo) GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.Resume, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out types.Resume
	err := transaction.WithContext(dbc.Context()).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, dberrors.Map("ResumeRepo.GetByIDForUser", err, "")
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *resumeRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Resume, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Resume
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("ResumeRepo.ListByUser", err, "")
	}
	return out, nil
}
