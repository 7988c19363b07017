package interview

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/dberrors"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type JobListingRepo interface {
	Create(dbc dbctx.Context, listing *types.JobListing) (*types.JobListing, error)
	GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.JobListing, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.JobListing, error)
}

type jobListingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobListingRepo(db *gorm.DB, baseLog *logger.Logger) JobListingRepo {
	return &jobListingRepo{db: db, log: baseLog.With("repo", "JobListingRepo")}
}

func (r *jobListingRepo) Create(dbc dbctx.Context, listing *types.JobListing) (*types.JobListing, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Context()).Create(listing).Error; err != nil {
		return nil, dberrors.Map("JobListingRepo.Create", err, "")
	}
	return listing, nil
}

func (r *jobListingRepo) GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.JobListing, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out types.JobListing
	err := transaction.WithContext(dbc.Context()).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, dberrors.Map("JobListingRepo.GetByIDForUser", err, "")
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *jobListingRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.JobListing, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.JobListing
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("JobListingRepo.ListByUser", err, "")
	}
	return out, nil
}
