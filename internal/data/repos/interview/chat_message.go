package interview

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/dberrors"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, msg *types.ChatMessage) (*types.ChatMessage, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error)
	CountBySession(dbc dbctx.Context, sessionID uuid.UUID) (int64, error)
	CountBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, msg *types.ChatMessage) (*types.ChatMessage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Context()).Create(msg).Error; err != nil {
		return nil, dberrors.Map("ChatMessageRepo.Create", err, "")
	}
	return msg, nil
}

func (r *chatMessageRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ChatMessage
	if sessionID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Where("session_id = ?", sessionID).
		Order("sent_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("ChatMessageRepo.ListBySession", err, "")
	}
	return out, nil
}

func (r *chatMessageRepo) CountBySession(dbc dbctx.Context, sessionID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if sessionID == uuid.Nil {
		return 0, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Model(&types.ChatMessage{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error; err != nil {
		return 0, dberrors.Map("ChatMessageRepo.CountBySession", err, "")
	}
	return n, nil
}

func (r *chatMessageRepo) CountBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) (map[uuid.UUID]int, error) {
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
		Model(&types.ChatMessage{}).
		Select("session_id, COUNT(*) AS n").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&rows).Error; err != nil {
		return nil, dberrors.Map("ChatMessageRepo.CountBySessions", err, "")
	}
	for _, row := range rows {
		out[row.SessionID] = row.N
	}
	return out, nil
}
