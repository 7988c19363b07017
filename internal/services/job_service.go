package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/domain/jobs"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/ctxutil"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

const (
	JobTypeResultAggregate = "result_aggregate"
	JobTypeChatReply       = "chat_reply"

	EntityTypeSession = "interview_session"
)

type JobService interface {
	// Enqueue inserts a queued job_run, joining dbc.Tx when one is open.
	Enqueue(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, error)
	GetByIDForUser(dbc dbctx.Context, jobID, userID uuid.UUID) (*types.JobRun, error)
	GetLatestForEntity(dbc dbctx.Context, userID uuid.UUID, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error)
}

type jobService struct {
	db     *gorm.DB
	log    *logger.Logger
	repo   repos.JobRunRepo
	notify JobNotifier
}

func NewJobService(db *gorm.DB, baseLog *logger.Logger, repo repos.JobRunRepo, notify JobNotifier) JobService {
	if notify == nil {
		notify = NewJobNotifier(nil)
	}
	return &jobService{
		db:     db,
		log:    baseLog.With("service", "JobService"),
		repo:   repo,
		notify: notify,
	}
}

func (s *jobService) Enqueue(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, error) {
	if ownerUserID == uuid.Nil {
		return nil, apperr.Validation("JobService.Enqueue", "missing owner_user_id")
	}
	if jobType == "" {
		return nil, apperr.Validation("JobService.Enqueue", "missing job_type")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if td := ctxutil.GetTraceData(dbc.Ctx); td != nil {
		if td.TraceID != "" {
			if _, ok := payload["trace_id"]; !ok {
				payload["trace_id"] = td.TraceID
			}
		}
		if td.RequestID != "" {
			if _, ok := payload["request_id"]; !ok {
				payload["request_id"] = td.RequestID
			}
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Internal("JobService.Enqueue", fmt.Errorf("encode payload: %w", err))
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	now := time.Now().UTC()
	job := &types.JobRun{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		JobType:     jobType,
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      jobs.StatusQueued,
		Stage:       jobs.StatusQueued,
		Payload:     datatypes.JSON(b),
		Result:      datatypes.JSON([]byte(`{}`)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.repo.Create(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, []*types.JobRun{job}); err != nil {
		return nil, err
	}
	s.log.Debug("Job enqueued", "job_id", job.ID, "job_type", job.JobType, "entity_id", entityID)
	s.notify.JobCreated(ownerUserID, job)
	return job, nil
}

func (s *jobService) GetByIDForUser(dbc dbctx.Context, jobID, userID uuid.UUID) (*types.JobRun, error) {
	job, err := s.repo.GetByIDForOwner(dbc, jobID, userID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.NotFound("JobService.GetByIDForUser", "job not found")
	}
	return job, nil
}

func (s *jobService) GetLatestForEntity(dbc dbctx.Context, userID uuid.UUID, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error) {
	job, err := s.repo.GetLatestByEntity(dbc, entityType, entityID, jobType)
	if err != nil {
		return nil, err
	}
	if job == nil || job.OwnerUserID != userID {
		return nil, apperr.NotFound("JobService.GetLatestForEntity", "job not found")
	}
	return job, nil
}
