package interview

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/dberrors"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, s *types.InterviewSession) (*types.InterviewSession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.InterviewSession, error)
	GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.InterviewSession, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.InterviewSession, error)
	// UpdateFieldsUnlessStatus applies updates to an owned session whose status is not disallowed.
	UpdateFieldsUnlessStatus(dbc dbctx.Context, id, userID uuid.UUID, disallowed []types.SessionStatus, updates map[string]interface{}) (bool, error)
	// Transition moves the session to `to` only if its current status is one of from.
	Transition(dbc dbctx.Context, id uuid.UUID, from []types.SessionStatus, to types.SessionStatus, updates map[string]interface{}) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, s *types.InterviewSession) (*types.InterviewSession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Context()).Create(s).Error; err != nil {
		return nil, dberrors.Map("SessionRepo.Create", err, "")
	}
	return s, nil
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.InterviewSession, error) {
	return r.get(dbc, "SessionRepo.GetByID", id, uuid.Nil)
}

func (r *sessionRepo) GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*types.InterviewSession, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	return r.get(dbc, "SessionRepo.GetByIDForUser", id, userID)
}

func (r *sessionRepo) get(dbc dbctx.Context, op string, id, userID uuid.UUID) (*types.InterviewSession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	q := transaction.WithContext(dbc.Context()).Where("id = ?", id)
	if userID != uuid.Nil {
		q = q.Where("user_id = ?", userID)
	}
	var out types.InterviewSession
	if err := q.Limit(1).Find(&out).Error; err != nil {
		return nil, dberrors.Map(op, err, "")
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *sessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.InterviewSession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.InterviewSession
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Context()).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&out).Error; err != nil {
		return nil, dberrors.Map("SessionRepo.ListByUser", err, "")
	}
	return out, nil
}

func (r *sessionRepo) UpdateFieldsUnlessStatus(dbc dbctx.Context, id, userID uuid.UUID, disallowed []types.SessionStatus, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	q := transaction.WithContext(dbc.Context()).
		Model(&types.InterviewSession{}).
		Where("id = ? AND user_id = ?", id, userID)
	if len(disallowed) > 0 {
		q = q.Where("status NOT IN ?", statusStrings(disallowed))
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return false, dberrors.Map("SessionRepo.UpdateFieldsUnlessStatus", res.Error, "")
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepo) Transition(dbc dbctx.Context, id uuid.UUID, from []types.SessionStatus, to types.SessionStatus, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(from) == 0 {
		return false, nil
	}
	fields := map[string]interface{}{}
	for k, v := range updates {
		fields[k] = v
	}
	fields["status"] = string(to)
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now().UTC()
	}
	res := transaction.WithContext(dbc.Context()).
		Model(&types.InterviewSession{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(fields)
	if res.Error != nil {
		return false, dberrors.Map("SessionRepo.Transition", res.Error, "")
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	err := transaction.WithContext(dbc.Context()).
		Model(&types.InterviewSession{}).
		Where("id = ?", id).
		Updates(updates).Error
	return dberrors.Map("SessionRepo.UpdateFields", err, "")
}

func statusStrings(in []types.SessionStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
