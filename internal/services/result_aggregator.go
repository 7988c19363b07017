package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/observability"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

// ResultAggregator drives an ENDED session through RESULT_PROCESSING to RESULT_PROCESSED.
// Every step is a conditional transition, so a redelivered job resumes where the last one stopped.
type ResultAggregator interface {
	Aggregate(dbc dbctx.Context, sessionID uuid.UUID) (*types.InterviewResult, error)
	// RecordFailure keeps the latest error on an ENDED or RESULT_PROCESSING session.
	RecordFailure(dbc dbctx.Context, sessionID uuid.UUID, cause error) error
	// MarkFailed moves RESULT_PROCESSING to RESULT_FAILED.
	MarkFailed(dbc dbctx.Context, sessionID uuid.UUID, cause error) error
}

type resultAggregator struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   repos.Repos
	scorer  ScoringFunction
	notify  SessionNotifier
	metrics *observability.Metrics
}

func NewResultAggregator(db *gorm.DB, baseLog *logger.Logger, r repos.Repos, scorer ScoringFunction, notify SessionNotifier, metrics *observability.Metrics) ResultAggregator {
	if notify == nil {
		notify = NewSessionNotifier(nil, nil)
	}
	return &resultAggregator{
		db:      db,
		log:     baseLog.With("service", "ResultAggregator"),
		repos:   r,
		scorer:  scorer,
		notify:  notify,
		metrics: metrics,
	}
}

func (a *resultAggregator) Aggregate(dbc dbctx.Context, sessionID uuid.UUID) (res *types.InterviewResult, err error) {
	const op = "ResultAggregator.Aggregate"
	start := time.Now()
	ctx, span := observability.Tracer("services").Start(dbc.Context(), op)
	span.SetAttributes(attribute.String("session_id", sessionID.String()))
	outcome := "processed"
	defer func() {
		if err != nil {
			outcome = string(apperr.CodeOf(err))
			if outcome == "" {
				outcome = "error"
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		a.metrics.ObserveAggregation(outcome, time.Since(start))
		span.End()
	}()
	dbc = dbctx.Context{Ctx: ctx, Tx: dbc.Tx}

	session, err := a.repos.Sessions.GetByID(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NotFound(op, "interview session not found")
	}

	switch session.Status {
	case types.SessionPending, types.SessionOngoing:
		return nil, apperr.InvalidState(op, "interview session has not ended")
	case types.SessionResultProcessed:
		outcome = "already_processed"
		return a.existingResult(dbc, session)
	case types.SessionResultFailed:
		return nil, apperr.InvalidState(op, "result processing already failed")
	case types.SessionEnded:
		if err := a.ensureNoOtherResult(dbc, session); err != nil {
			return nil, err
		}
		ok, err := a.repos.Sessions.Transition(dbc, session.ID,
			[]types.SessionStatus{types.SessionEnded}, types.SessionResultProcessing, nil)
		if err != nil {
			return nil, err
		}
		if ok {
			session.Status = types.SessionResultProcessing
			a.notify.StatusChanged(ctx, session, types.SessionEnded)
		} else {
			// Another delivery moved it first; re-read and follow its lead.
			session, err = a.repos.Sessions.GetByID(dbc, sessionID)
			if err != nil {
				return nil, err
			}
			if session == nil || session.Status != types.SessionResultProcessing {
				return nil, apperr.InvalidState(op, "interview session changed status during aggregation")
			}
		}
	}

	var (
		questions []*types.Question
		responses []*types.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	gdbc := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	if dbc.Tx != nil {
		g.SetLimit(1)
	}
	g.Go(func() error {
		var err error
		questions, err = a.repos.Questions.ListByInterview(gdbc, session.InterviewID)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = a.repos.Responses.ListBySession(gdbc, session.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	existing, err := a.repos.Results.GetByInterviewUser(dbc, session.InterviewID, session.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.SessionID != session.ID {
			return nil, apperr.Conflict(op, "a result already exists for this interview")
		}
		// Our own result was committed by an earlier delivery; only the transition is left.
		return a.finish(dbc, session, existing, false)
	}

	scores, err := a.score(questions, responses)
	if err != nil {
		return nil, apperr.Internal(op, fmt.Errorf("score session: %w", err))
	}
	if err := checkScores(op, scores.SubScores); err != nil {
		return nil, err
	}

	result := buildResult(session, scores, len(responses))
	return a.finish(dbc, session, result, true)
}

// ensureNoOtherResult rejects a session whose interview already has a result from a different session.
func (a *resultAggregator) ensureNoOtherResult(dbc dbctx.Context, session *types.InterviewSession) error {
	existing, err := a.repos.Results.GetByInterviewUser(dbc, session.InterviewID, session.UserID)
	if err != nil {
		return err
	}
	if existing != nil && existing.SessionID != session.ID {
		return apperr.Conflict("ResultAggregator.Aggregate", "a result already exists for this interview")
	}
	return nil
}

// score runs the scoring function, turning a panic into an ordinary error.
func (a *resultAggregator) score(questions []*types.Question, responses []*types.Response) (scores ResultScores, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()
	return a.scorer.Score(questions, responses)
}

func (a *resultAggregator) finish(dbc dbctx.Context, session *types.InterviewSession, result *types.InterviewResult, create bool) (*types.InterviewResult, error) {
	const op = "ResultAggregator.Aggregate"
	err := inTx(dbc, a.db, func(txc dbctx.Context) error {
		if create {
			if _, err := a.repos.Results.Create(txc, result); err != nil {
				return err
			}
		}
		ok, err := a.repos.Sessions.Transition(txc, session.ID,
			[]types.SessionStatus{types.SessionResultProcessing}, types.SessionResultProcessed,
			map[string]interface{}{"result_error": ""})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState(op, "interview session is no longer processing its result")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	session.Status = types.SessionResultProcessed
	a.log.Info("Interview result processed",
		"session_id", session.ID,
		"result_id", result.ID,
		"overall_score", result.OverallScore,
		"responses_counted", result.ResponsesCounted,
	)
	a.notify.StatusChanged(dbc.Context(), session, types.SessionResultProcessing)
	a.notify.ResultReady(dbc.Context(), session.UserID, result)
	return result, nil
}

func (a *resultAggregator) existingResult(dbc dbctx.Context, session *types.InterviewSession) (*types.InterviewResult, error) {
	res, err := a.repos.Results.GetBySessionForUser(dbc, session.ID, session.UserID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperr.NotFound("ResultAggregator.Aggregate", "interview result not found")
	}
	return res, nil
}

func (a *resultAggregator) RecordFailure(dbc dbctx.Context, sessionID uuid.UUID, cause error) error {
	session, err := a.repos.Sessions.GetByID(dbc, sessionID)
	if err != nil || session == nil {
		return err
	}
	_, err = a.repos.Sessions.UpdateFieldsUnlessStatus(dbc, session.ID, session.UserID,
		awaitingResultExcluded,
		map[string]interface{}{"result_error": errorText(cause)})
	return err
}

// awaitingResultExcluded lists the statuses whose result_error RecordFailure leaves alone.
var awaitingResultExcluded = []types.SessionStatus{
	types.SessionPending, types.SessionOngoing, types.SessionResultProcessed, types.SessionResultFailed,
}

func (a *resultAggregator) MarkFailed(dbc dbctx.Context, sessionID uuid.UUID, cause error) error {
	ok, err := a.repos.Sessions.Transition(dbc, sessionID,
		[]types.SessionStatus{types.SessionResultProcessing}, types.SessionResultFailed,
		map[string]interface{}{"result_error": errorText(cause)})
	if err != nil || !ok {
		return err
	}
	session, err := a.repos.Sessions.GetByID(dbc, sessionID)
	if err != nil {
		return err
	}
	a.log.Warn("Interview result processing failed", "session_id", sessionID, "error", cause)
	a.notify.StatusChanged(dbc.Context(), session, types.SessionResultProcessing)
	return nil
}

func buildResult(session *types.InterviewSession, scores ResultScores, counted int) *types.InterviewResult {
	sub := scores.SubScores
	metrics := make([]types.ResultMetric, len(scores.Metrics))
	copy(metrics, scores.Metrics)
	return &types.InterviewResult{
		InterviewID:               session.InterviewID,
		UserID:                    session.UserID,
		SessionID:                 session.ID,
		OverallScore:              OverallScore(sub),
		ContentRelevanceScore:     sub.ContentRelevance,
		CommunicationSkillScore:   sub.CommunicationSkill,
		TechnicalCompetenceScore:  sub.TechnicalCompetence,
		ProblemSolvingScore:       sub.ProblemSolving,
		ResponseConsistencyScore:  sub.ResponseConsistency,
		DepthOfResponseScore:      sub.DepthOfResponse,
		CriticalThinkingScore:     sub.CriticalThinking,
		BehavioralCompetencyScore: sub.BehavioralCompetency,
		PerformanceSummary:        scores.PerformanceSummary,
		DetailedFeedback:          scores.DetailedFeedback,
		ResponsesCounted:          counted,
		Metrics:                   metrics,
	}
}

func checkScores(op string, s SubScores) error {
	for _, v := range s.Values() {
		if math.IsNaN(v) || v < 0 || v > 100 {
			return apperr.Internal(op, fmt.Errorf("scoring produced out-of-range score %v", v))
		}
	}
	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
