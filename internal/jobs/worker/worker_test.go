package worker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/interviewprep-backend/internal/data/repos"
	"github.com/yungbote/interviewprep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/domain/jobs"
	"github.com/yungbote/interviewprep-backend/internal/jobs/pipeline/chat_reply"
	"github.com/yungbote/interviewprep-backend/internal/jobs/pipeline/result_aggregate"
	"github.com/yungbote/interviewprep-backend/internal/jobs/runtime"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
	"github.com/yungbote/interviewprep-backend/internal/services"
)

type harness struct {
	db       *gorm.DB
	dbc      dbctx.Context
	repos    repos.Repos
	jobs     services.JobService
	sessions services.SessionService
	chat     services.ChatService
	registry *runtime.Registry
}

func newHarness(t *testing.T, scorer services.ScoringFunction) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.NewRepos(db, log)
	notify := services.NewSessionNotifier(nil, nil)
	js := services.NewJobService(db, log, r.JobRuns, services.NewJobNotifier(nil))
	chat := services.NewChatService(db, log, r, js, notify)
	agg := services.NewResultAggregator(db, log, r, scorer, notify, nil)

	reg := runtime.NewRegistry()
	if err := reg.Register(result_aggregate.New(log, agg)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(chat_reply.New(log, r.ChatMessages, chat, services.RuleResponder{})); err != nil {
		t.Fatalf("register: %v", err)
	}
	return &harness{
		db:       db,
		dbc:      dbctx.Context{Ctx: context.Background()},
		repos:    r,
		jobs:     js,
		sessions: services.NewSessionService(db, log, r, js, notify, services.SessionDefaults{CameraOn: true, MicOn: true}),
		chat:     chat,
		registry: reg,
	}
}

func (h *harness) worker(t *testing.T, cfg Config) *Worker {
	t.Helper()
	return NewWorker(h.db, testutil.Logger(t), h.repos.JobRuns, h.registry, services.NewJobNotifier(nil), nil, cfg)
}

func (h *harness) endedSession(t *testing.T, user uuid.UUID) *types.InterviewSession {
	t.Helper()
	ctx := context.Background()
	iv, qs := testutil.SeedInterview(t, ctx, h.db, user, types.QuestionVerbal, types.QuestionVerbal, types.QuestionCode)
	s := testutil.SeedSession(t, ctx, h.db, iv.ID, user, types.SessionOngoing)
	for _, q := range qs {
		testutil.SeedResponse(t, ctx, h.db, s.ID, q, "I led the migration and measured the latency impact before and after.")
	}
	ended, err := h.sessions.End(h.dbc, s.ID, user)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	return ended
}

func (h *harness) latestJob(t *testing.T, sessionID uuid.UUID, jobType string) *types.JobRun {
	t.Helper()
	job, err := h.repos.JobRuns.GetLatestByEntity(h.dbc, services.EntityTypeSession, sessionID, jobType)
	if err != nil || job == nil {
		t.Fatalf("latest job: %v %v", job, err)
	}
	return job
}

func fixedScorer(v float64) services.ScoringFunction {
	return services.ScoringFunc(func([]*types.Question, []*types.Response) (services.ResultScores, error) {
		return services.ResultScores{
			SubScores: services.SubScores{
				ContentRelevance:     v,
				CommunicationSkill:   v,
				ResponseConsistency:  v,
				DepthOfResponse:      v,
				CriticalThinking:     v,
				BehavioralCompetency: v,
			},
			PerformanceSummary: "summary",
			DetailedFeedback:   "feedback",
		}, nil
	})
}

func TestRunOnceAggregatesEndedSession(t *testing.T) {
	h := newHarness(t, fixedScorer(70))
	user := uuid.New()
	s := h.endedSession(t, user)
	w := h.worker(t, Config{MaxAttempts: 3})

	ran, err := w.RunOnce(context.Background())
	if err != nil || !ran {
		t.Fatalf("RunOnce: ran=%v err=%v", ran, err)
	}
	job := h.latestJob(t, s.ID, services.JobTypeResultAggregate)
	if job.Status != jobs.StatusSucceeded {
		t.Fatalf("job status: %s (%s)", job.Status, job.Error)
	}
	if job.Attempts != 1 {
		t.Fatalf("attempts: %d", job.Attempts)
	}
	got, err := h.repos.Sessions.GetByID(h.dbc, s.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != types.SessionResultProcessed {
		t.Fatalf("session status: %s", got.Status)
	}
	res, err := h.repos.Results.GetBySessionForUser(h.dbc, s.ID, user)
	if err != nil || res == nil {
		t.Fatalf("result: %v %v", res, err)
	}
	if res.OverallScore != 70 {
		t.Fatalf("overall: %v", res.OverallScore)
	}

	ran, err = w.RunOnce(context.Background())
	if err != nil || ran {
		t.Fatalf("expected empty queue, ran=%v err=%v", ran, err)
	}
}

func TestRedeliveredAggregationIsIdempotent(t *testing.T) {
	h := newHarness(t, fixedScorer(60))
	user := uuid.New()
	s := h.endedSession(t, user)
	w := h.worker(t, Config{MaxAttempts: 3})
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	// A second delivery of the same work must not create another result.
	if _, err := h.jobs.Enqueue(h.dbc, user, services.JobTypeResultAggregate, services.EntityTypeSession, &s.ID,
		map[string]any{"session_id": s.ID.String()}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	job := h.latestJob(t, s.ID, services.JobTypeResultAggregate)
	if job.Status != jobs.StatusSucceeded {
		t.Fatalf("redelivery status: %s (%s)", job.Status, job.Error)
	}
	results, err := h.repos.Results.ListByUser(h.dbc, user)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results: %d", len(results))
	}
}

func TestScoringFailureRetriesThenFailsSession(t *testing.T) {
	h := newHarness(t, services.ScoringFunc(func([]*types.Question, []*types.Response) (services.ResultScores, error) {
		return services.ResultScores{}, errors.New("scorer offline")
	}))
	user := uuid.New()
	s := h.endedSession(t, user)
	w := h.worker(t, Config{MaxAttempts: 2, RetryDelay: 0})

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	job := h.latestJob(t, s.ID, services.JobTypeResultAggregate)
	if job.Status != jobs.StatusFailed {
		t.Fatalf("first attempt status: %s", job.Status)
	}
	got, _ := h.repos.Sessions.GetByID(h.dbc, s.ID)
	if got.Status != types.SessionResultProcessing || got.ResultError == "" {
		t.Fatalf("after first attempt: %s %q", got.Status, got.ResultError)
	}

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	job = h.latestJob(t, s.ID, services.JobTypeResultAggregate)
	if job.Status != jobs.StatusDead {
		t.Fatalf("final attempt status: %s", job.Status)
	}
	got, _ = h.repos.Sessions.GetByID(h.dbc, s.ID)
	if got.Status != types.SessionResultFailed {
		t.Fatalf("session status: %s", got.Status)
	}
}

func TestConflictingResultIsNotRetried(t *testing.T) {
	h := newHarness(t, fixedScorer(50))
	user := uuid.New()
	ctx := context.Background()
	iv, qs := testutil.SeedInterview(t, ctx, h.db, user, types.QuestionVerbal)
	w := h.worker(t, Config{MaxAttempts: 5})

	first := testutil.SeedSession(t, ctx, h.db, iv.ID, user, types.SessionOngoing)
	testutil.SeedResponse(t, ctx, h.db, first.ID, qs[0], "answer")
	if _, err := h.sessions.End(h.dbc, first.ID, user); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	second := testutil.SeedSession(t, ctx, h.db, iv.ID, user, types.SessionOngoing)
	if _, err := h.sessions.End(h.dbc, second.ID, user); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	job := h.latestJob(t, second.ID, services.JobTypeResultAggregate)
	if job.Status != jobs.StatusDead {
		t.Fatalf("conflict job status: %s", job.Status)
	}
	got, _ := h.repos.Sessions.GetByID(h.dbc, second.ID)
	if got.Status != types.SessionEnded {
		t.Fatalf("conflicting session status: %s", got.Status)
	}
	if !strings.Contains(got.ResultError, "already exists") {
		t.Fatalf("conflicting session error marker: %q", got.ResultError)
	}
}

func TestConflictWhileProcessingFailsSession(t *testing.T) {
	h := newHarness(t, fixedScorer(50))
	user := uuid.New()
	ctx := context.Background()
	iv, qs := testutil.SeedInterview(t, ctx, h.db, user, types.QuestionVerbal)
	w := h.worker(t, Config{MaxAttempts: 5})

	first := testutil.SeedSession(t, ctx, h.db, iv.ID, user, types.SessionOngoing)
	testutil.SeedResponse(t, ctx, h.db, first.ID, qs[0], "answer")
	if _, err := h.sessions.End(h.dbc, first.ID, user); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	// A sibling session that already moved past ENDED before the other result landed.
	second := testutil.SeedSession(t, ctx, h.db, iv.ID, user, types.SessionResultProcessing)
	if _, err := h.jobs.Enqueue(h.dbc, user, services.JobTypeResultAggregate, services.EntityTypeSession, &second.ID,
		map[string]any{"session_id": second.ID.String()}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	job := h.latestJob(t, second.ID, services.JobTypeResultAggregate)
	if job.Status != jobs.StatusDead {
		t.Fatalf("job status: %s", job.Status)
	}
	got, _ := h.repos.Sessions.GetByID(h.dbc, second.ID)
	if got.Status != types.SessionResultFailed {
		t.Fatalf("session status: %s", got.Status)
	}
	if !strings.Contains(got.ResultError, "already exists") {
		t.Fatalf("error marker: %q", got.ResultError)
	}
}

func TestScorerPanicOnFinalAttemptFailsSession(t *testing.T) {
	h := newHarness(t, services.ScoringFunc(func([]*types.Question, []*types.Response) (services.ResultScores, error) {
		panic("scorer exploded")
	}))
	user := uuid.New()
	s := h.endedSession(t, user)
	w := h.worker(t, Config{MaxAttempts: 1})

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	job := h.latestJob(t, s.ID, services.JobTypeResultAggregate)
	if job.Status != jobs.StatusDead {
		t.Fatalf("job status: %s (%s)", job.Status, job.Error)
	}
	got, _ := h.repos.Sessions.GetByID(h.dbc, s.ID)
	if got.Status != types.SessionResultFailed {
		t.Fatalf("session status: %s", got.Status)
	}
	if !strings.Contains(got.ResultError, "scorer exploded") {
		t.Fatalf("error marker: %q", got.ResultError)
	}
}

func TestChatReplyJobAppendsCompanionMessage(t *testing.T) {
	h := newHarness(t, fixedScorer(50))
	user := uuid.New()
	ctx := context.Background()
	iv, _ := testutil.SeedInterview(t, ctx, h.db, user, types.QuestionVerbal)
	s := testutil.SeedSession(t, ctx, h.db, iv.ID, user, types.SessionPending)
	if _, err := h.chat.Post(h.dbc, s.ID, user, "hello there"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	w := h.worker(t, Config{MaxAttempts: 3})
	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	job := h.latestJob(t, s.ID, services.JobTypeChatReply)
	if job.Status != jobs.StatusSucceeded {
		t.Fatalf("job status: %s (%s)", job.Status, job.Error)
	}
	history, err := h.chat.History(h.dbc, s.ID, user)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[1].IsFromUser {
		t.Fatalf("history: %+v", history)
	}
	if history[1].Content == "" {
		t.Fatal("empty companion reply")
	}
}

type panicky struct{ calls int }

func (p *panicky) Type() string { return "flaky" }

func (p *panicky) Run(jc *runtime.Context) error {
	p.calls++
	if p.calls == 1 {
		panic("boom")
	}
	return nil
}

func TestPanicIsRecoveredAndRetried(t *testing.T) {
	h := newHarness(t, fixedScorer(50))
	flaky := &panicky{}
	if err := h.registry.Register(flaky); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx := context.Background()
	job := testutil.SeedJob(t, ctx, h.db, &types.JobRun{OwnerUserID: uuid.New(), JobType: "flaky"})
	w := h.worker(t, Config{MaxAttempts: 3, RetryDelay: 0})

	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	got, _ := h.repos.JobRuns.GetByID(h.dbc, job.ID)
	if got.Status != jobs.StatusFailed || got.Stage != "panic" {
		t.Fatalf("after panic: %s/%s", got.Status, got.Stage)
	}
	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	got, _ = h.repos.JobRuns.GetByID(h.dbc, job.ID)
	if got.Status != jobs.StatusSucceeded || got.Attempts != 2 {
		t.Fatalf("after retry: %s attempts=%d", got.Status, got.Attempts)
	}
}

func TestUnknownJobTypeIsDead(t *testing.T) {
	h := newHarness(t, fixedScorer(50))
	ctx := context.Background()
	job := testutil.SeedJob(t, ctx, h.db, &types.JobRun{OwnerUserID: uuid.New(), JobType: "unknown"})
	w := h.worker(t, Config{MaxAttempts: 3})
	if _, err := w.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	got, _ := h.repos.JobRuns.GetByID(h.dbc, job.ID)
	if got.Status != jobs.StatusDead {
		t.Fatalf("status: %s", got.Status)
	}
}
