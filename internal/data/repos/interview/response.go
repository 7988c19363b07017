package interview

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/dberrors"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type ResponseRepo interface {
	// Create relies on the (session_id, question_id) unique index; a duplicate surfaces as a conflict.
	Create(dbc dbctx.Context, resp *types.Response) (*types.Response, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.Response, error)
	ListBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) ([]*types.Response, error)
	CountBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return &responseRepo{db: db, log: baseLog.With("repo", "ResponseRepo")}
}

func (r *responseRepo) Create(dbc dbctx.Context, resp *types.Response) (*types.Response, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Context()).Omit("Question").Create(resp).Error; err != nil {
		return nil, dberrors.Map("ResponseRepo.Create", err, "a response for this question already exists in this session")
	}
	return resp, nil
}

func (r *responseRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.Response, error) {
	return r.ListBySessions(dbc, []uuid.UUID{sessionID})
}

func (r *responseRepo) ListBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) ([]*types.Response, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Response
	if len(sessionIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Preload("Question").
		Where("session_id IN ?", sessionIDs).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("ResponseRepo.ListBySessions", err, "")
	}
	return out, nil
}

func (r *responseRepo) CountBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := map[uuid.UUID]int{}
	if len(sessionIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		SessionID uuid.UUID
		N         int
	}
	if err := transaction.WithContext(dbc.Context()).
		Model(&types.Response{}).
		Select("session_id, COUNT(*) AS n").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&rows).Error; err != nil {
		return nil, dberrors.Map("ResponseRepo.CountBySessions", err, "")
	}
	for _, row := range rows {
		out[row.SessionID] = row.N
	}
	return out, nil
}
