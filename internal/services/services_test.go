package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	"github.com/yungbote/interviewprep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/pkg/pointers"
)

type testEnv struct {
	db         *gorm.DB
	dbc        dbctx.Context
	repos      repos.Repos
	jobs       JobService
	listings   JobListingService
	interviews InterviewService
	sessions   SessionService
	responses  ResponseService
	chat       ChatService
	aggregator ResultAggregator
	results    ResultService
	metrics    UserMetricsService
}

func newTestEnv(t *testing.T, scorer ScoringFunction) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.NewRepos(db, log)
	notify := NewSessionNotifier(nil, nil)
	jobs := NewJobService(db, log, r.JobRuns, NewJobNotifier(nil))
	if scorer == nil {
		scorer = constantScorer(80)
	}
	return &testEnv{
		db:         db,
		dbc:        dbctx.Context{Ctx: context.Background()},
		repos:      r,
		jobs:       jobs,
		listings:   NewJobListingService(log, r.JobListings),
		interviews: NewInterviewService(db, log, r, TemplateQuestionGenerator{}),
		sessions:   NewSessionService(db, log, r, jobs, notify, SessionDefaults{CameraOn: true, MicOn: true}),
		responses:  NewResponseService(db, log, r, notify, nil),
		chat:       NewChatService(db, log, r, jobs, notify),
		aggregator: NewResultAggregator(db, log, r, scorer, notify, nil),
		results:    NewResultService(log, r),
		metrics:    NewUserMetricsService(log, r),
	}
}

// constantScorer gives every dimension the same score, nil code dimensions when nothing CODE was answered.
func constantScorer(v float64) ScoringFunction {
	return ScoringFunc(func(questions []*types.Question, responses []*types.Response) (ResultScores, error) {
		sub := SubScores{
			ContentRelevance:     v,
			CommunicationSkill:   v,
			ResponseConsistency:  v,
			DepthOfResponse:      v,
			CriticalThinking:     v,
			BehavioralCompetency: v,
		}
		for _, r := range responses {
			if r.Question != nil && r.Question.Type == types.QuestionCode {
				sub.TechnicalCompetence = pointers.Float64(v)
				sub.ProblemSolving = pointers.Float64(v)
				break
			}
		}
		return ResultScores{
			SubScores:          sub,
			PerformanceSummary: "summary",
			DetailedFeedback:   "feedback",
			Metrics:            []types.ResultMetric{{Name: "Question Coverage", Score: v}},
		}, nil
	})
}

// seedInterview creates an interview with one VERBAL and one CODE question through the stores.
func (e *testEnv) seedInterview(t *testing.T, userID uuid.UUID) (*types.Interview, []types.Question) {
	t.Helper()
	return testutil.SeedInterview(t, e.dbc.Ctx, e.db, userID, types.QuestionVerbal, types.QuestionCode)
}

func mustStatus(t *testing.T, e *testEnv, sessionID uuid.UUID, want types.SessionStatus) {
	t.Helper()
	s, err := e.repos.Sessions.GetByID(e.dbc, sessionID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if s == nil {
		t.Fatalf("session %s missing", sessionID)
	}
	if s.Status != want {
		t.Fatalf("status: want=%s got=%s", want, s.Status)
	}
}

func seedSession(t *testing.T, e *testEnv, interviewID, userID uuid.UUID, status types.SessionStatus) *types.InterviewSession {
	t.Helper()
	return testutil.SeedSession(t, e.dbc.Ctx, e.db, interviewID, userID, status)
}
