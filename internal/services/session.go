package services

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/envutil"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

type SessionDefaults struct {
	CameraOn bool
	MicOn    bool
}

func SessionDefaultsFromEnv() SessionDefaults {
	return SessionDefaults{
		CameraOn: envutil.Bool("SESSION_CAMERA_DEFAULT", true),
		MicOn:    envutil.Bool("SESSION_MIC_DEFAULT", true),
	}
}

type UpdateSessionStateInput struct {
	IsCameraOn *bool `json:"is_camera_on"`
	IsMicOn    *bool `json:"is_mic_on"`
}

func (in UpdateSessionStateInput) empty() bool {
	return in.IsCameraOn == nil && in.IsMicOn == nil
}

// SessionDetail is a session with everything a client needs to resume or review it.
type SessionDetail struct {
	*types.InterviewSession
	Interview    *types.Interview     `json:"interview"`
	Questions    []*types.Question    `json:"questions"`
	Responses    []*types.Response    `json:"responses"`
	ChatMessages []*types.ChatMessage `json:"chat_messages"`
}

type SessionSummary struct {
	*types.InterviewSession
	InterviewTitle string `json:"interview_title"`
	ResponseCount  int    `json:"response_count"`
	MessageCount   int    `json:"message_count"`
}

type SessionService interface {
	Create(dbc dbctx.Context, userID, interviewID uuid.UUID) (*types.InterviewSession, error)
	UpdateState(dbc dbctx.Context, sessionID, userID uuid.UUID, in UpdateSessionStateInput) (*types.InterviewSession, error)
	// End moves the session to ENDED and enqueues result aggregation in the same transaction.
	End(dbc dbctx.Context, sessionID, userID uuid.UUID) (*types.InterviewSession, error)
	Get(dbc dbctx.Context, sessionID, userID uuid.UUID) (*SessionDetail, error)
	List(dbc dbctx.Context, userID uuid.UUID) ([]*SessionSummary, error)
}

type sessionService struct {
	db       *gorm.DB
	log      *logger.Logger
	repos    repos.Repos
	jobs     JobService
	notify   SessionNotifier
	defaults SessionDefaults
}

func NewSessionService(db *gorm.DB, baseLog *logger.Logger, r repos.Repos, jobs JobService, notify SessionNotifier, defaults SessionDefaults) SessionService {
	if notify == nil {
		notify = NewSessionNotifier(nil, nil)
	}
	return &sessionService{
		db:       db,
		log:      baseLog.With("service", "SessionService"),
		repos:    r,
		jobs:     jobs,
		notify:   notify,
		defaults: defaults,
	}
}

func (s *sessionService) Create(dbc dbctx.Context, userID, interviewID uuid.UUID) (*types.InterviewSession, error) {
	iv, err := s.repos.Interviews.GetByIDForUser(dbc, interviewID, userID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, apperr.NotFound("SessionService.Create", "interview not found")
	}
	session := &types.InterviewSession{
		InterviewID: iv.ID,
		UserID:      userID,
		Status:      types.SessionPending,
		StartedAt:   time.Now().UTC(),
		IsCameraOn:  s.defaults.CameraOn,
		IsMicOn:     s.defaults.MicOn,
	}
	if _, err := s.repos.Sessions.Create(dbc, session); err != nil {
		return nil, err
	}
	s.log.Info("Interview session created", "session_id", session.ID, "interview_id", iv.ID, "user_id", userID)
	return session, nil
}

func (s *sessionService) UpdateState(dbc dbctx.Context, sessionID, userID uuid.UUID, in UpdateSessionStateInput) (*types.InterviewSession, error) {
	const op = "SessionService.UpdateState"
	if in.empty() {
		return nil, apperr.Validation(op, "at least one of is_camera_on or is_mic_on is required")
	}
	updates := map[string]interface{}{}
	if in.IsCameraOn != nil {
		updates["is_camera_on"] = *in.IsCameraOn
	}
	if in.IsMicOn != nil {
		updates["is_mic_on"] = *in.IsMicOn
	}

	var out *types.InterviewSession
	err := inTx(dbc, s.db, func(txc dbctx.Context) error {
		session, err := s.repos.Sessions.GetByIDForUser(txc, sessionID, userID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound(op, "interview session not found")
		}
		if session.Status.Terminal() {
			return apperr.InvalidState(op, "interview session is already completed and cannot be updated")
		}
		ok, err := s.repos.Sessions.UpdateFieldsUnlessStatus(txc, sessionID, userID,
			[]types.SessionStatus{types.SessionResultProcessed, types.SessionResultFailed}, updates)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState(op, "interview session is already completed and cannot be updated")
		}
		out, err = s.repos.Sessions.GetByIDForUser(txc, sessionID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sessionService) End(dbc dbctx.Context, sessionID, userID uuid.UUID) (*types.InterviewSession, error) {
	const op = "SessionService.End"
	var (
		out  *types.InterviewSession
		from types.SessionStatus
	)
	err := inTx(dbc, s.db, func(txc dbctx.Context) error {
		session, err := s.repos.Sessions.GetByIDForUser(txc, sessionID, userID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound(op, "interview session not found")
		}
		if session.Status.Ended() {
			return apperr.InvalidState(op, "interview session has already ended")
		}
		from = session.Status
		now := time.Now().UTC()
		ok, err := s.repos.Sessions.Transition(txc, sessionID,
			[]types.SessionStatus{types.SessionPending, types.SessionOngoing},
			types.SessionEnded,
			map[string]interface{}{"ended_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState(op, "interview session has already ended")
		}
		if _, err := s.jobs.Enqueue(txc, userID, JobTypeResultAggregate, EntityTypeSession, &sessionID, map[string]any{
			"session_id": sessionID.String(),
		}); err != nil {
			return err
		}
		session.Status = types.SessionEnded
		session.EndedAt = &now
		session.UpdatedAt = now
		out = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Interview session ended", "session_id", out.ID, "from", from)
	s.notify.StatusChanged(dbc.Context(), out, from)
	return out, nil
}

func (s *sessionService) Get(dbc dbctx.Context, sessionID, userID uuid.UUID) (*SessionDetail, error) {
	session, err := s.repos.Sessions.GetByIDForUser(dbc, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NotFound("SessionService.Get", "interview session not found")
	}
	detail := &SessionDetail{InterviewSession: session}

	g, gctx := errgroup.WithContext(dbc.Context())
	gdbc := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	if dbc.Tx != nil {
		// A transaction is a single connection; load sequentially.
		g.SetLimit(1)
	}
	g.Go(func() error {
		iv, err := s.repos.Interviews.GetByIDForUser(gdbc, session.InterviewID, userID)
		detail.Interview = iv
		return err
	})
	g.Go(func() error {
		qs, err := s.repos.Questions.ListByInterview(gdbc, session.InterviewID)
		detail.Questions = qs
		return err
	})
	g.Go(func() error {
		rs, err := s.repos.Responses.ListBySession(gdbc, session.ID)
		detail.Responses = rs
		return err
	})
	g.Go(func() error {
		ms, err := s.repos.ChatMessages.ListBySession(gdbc, session.ID)
		detail.ChatMessages = ms
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *sessionService) List(dbc dbctx.Context, userID uuid.UUID) ([]*SessionSummary, error) {
	sessions, err := s.repos.Sessions.ListByUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*SessionSummary, 0, len(sessions))
	if len(sessions) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(sessions))
	ivIDs := make([]uuid.UUID, 0, len(sessions))
	seen := map[uuid.UUID]bool{}
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
		if !seen[sess.InterviewID] {
			seen[sess.InterviewID] = true
			ivIDs = append(ivIDs, sess.InterviewID)
		}
	}
	responseCounts, err := s.repos.Responses.CountBySessions(dbc, ids)
	if err != nil {
		return nil, err
	}
	messageCounts, err := s.repos.ChatMessages.CountBySessions(dbc, ids)
	if err != nil {
		return nil, err
	}
	interviews, err := s.repos.Interviews.GetByIDs(dbc, ivIDs)
	if err != nil {
		return nil, err
	}
	titles := make(map[uuid.UUID]string, len(interviews))
	for _, iv := range interviews {
		titles[iv.ID] = iv.Title
	}
	for _, sess := range sessions {
		out = append(out, &SessionSummary{
			InterviewSession: sess,
			InterviewTitle:   titles[sess.InterviewID],
			ResponseCount:    responseCounts[sess.ID],
			MessageCount:     messageCounts[sess.ID],
		})
	}
	return out, nil
}
