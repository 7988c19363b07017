package interview

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/interviewprep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
)

func TestResponseUniquePerSessionQuestion(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	log := testutil.Logger(t)
	user := uuid.New()

	iv, qs := testutil.SeedInterview(t, ctx, db, user, types.QuestionVerbal, types.QuestionCode)
	s := testutil.SeedSession(t, ctx, db, iv.ID, user, types.SessionOngoing)

	repo := NewResponseRepo(db, log)
	if _, err := repo.Create(dbc, &types.Response{SessionID: s.ID, QuestionID: qs[0].ID, Content: "first"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(dbc, &types.Response{SessionID: s.ID, QuestionID: qs[0].ID, Content: "second"})
	if !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("duplicate response: expected conflict, got %v", err)
	}
	code := "return 1"
	if _, err := repo.Create(dbc, &types.Response{SessionID: s.ID, QuestionID: qs[1].ID, CodeResponse: &code}); err != nil {
		t.Fatalf("Create code: %v", err)
	}

	rows, err := repo.ListBySession(dbc, s.ID)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(rows) != 2 || rows[0].Content != "first" {
		t.Fatalf("ListBySession: unexpected %+v", rows)
	}
	if rows[1].Question == nil || rows[1].Question.Type != types.QuestionCode {
		t.Fatalf("ListBySession: question not joined")
	}

	counts, err := repo.CountBySessions(dbc, []uuid.UUID{s.ID})
	if err != nil || counts[s.ID] != 2 {
		t.Fatalf("CountBySessions: %v err=%v", counts, err)
	}
}

func TestSessionTransitionIsConditional(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	user := uuid.New()

	iv, _ := testutil.SeedInterview(t, ctx, db, user, types.QuestionVerbal)
	s := testutil.SeedSession(t, ctx, db, iv.ID, user, types.SessionPending)
	repo := NewSessionRepo(db, testutil.Logger(t))

	ok, err := repo.Transition(dbc, s.ID, []types.SessionStatus{types.SessionEnded}, types.SessionResultProcessing, nil)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if ok {
		t.Fatalf("Transition from wrong status must not apply")
	}

	now := time.Now().UTC()
	ok, err = repo.Transition(dbc, s.ID, []types.SessionStatus{types.SessionPending, types.SessionOngoing}, types.SessionEnded, map[string]interface{}{"ended_at": now})
	if err != nil || !ok {
		t.Fatalf("Transition to ENDED: ok=%v err=%v", ok, err)
	}
	got, err := repo.GetByIDForUser(dbc, s.ID, user)
	if err != nil {
		t.Fatalf("GetByIDForUser: %v", err)
	}
	if got.Status != types.SessionEnded || got.EndedAt == nil {
		t.Fatalf("unexpected session %+v", got)
	}

	if other, err := repo.GetByIDForUser(dbc, s.ID, uuid.New()); err != nil || other != nil {
		t.Fatalf("foreign user must not see the session, got %v err=%v", other, err)
	}

	ok, err = repo.UpdateFieldsUnlessStatus(dbc, s.ID, user, []types.SessionStatus{types.SessionEnded}, map[string]interface{}{"is_mic_on": false})
	if err != nil || ok {
		t.Fatalf("UpdateFieldsUnlessStatus must skip disallowed status: ok=%v err=%v", ok, err)
	}
}

func TestResultUniquePerInterviewUser(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	user := uuid.New()

	iv, _ := testutil.SeedInterview(t, ctx, db, user, types.QuestionVerbal)
	s := testutil.SeedSession(t, ctx, db, iv.ID, user, types.SessionResultProcessing)
	repo := NewResultRepo(db, testutil.Logger(t))

	res := &types.InterviewResult{
		InterviewID:  iv.ID,
		UserID:       user,
		SessionID:    s.ID,
		OverallScore: 80,
		Metrics: []types.ResultMetric{
			{Name: "Question Coverage", Score: 100},
			{Name: "Answer Quality", Score: 70},
		},
	}
	if _, err := repo.Create(dbc, res); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(dbc, &types.InterviewResult{InterviewID: iv.ID, UserID: user, SessionID: s.ID})
	if !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("second result: expected conflict, got %v", err)
	}

	got, err := repo.GetBySessionForUser(dbc, s.ID, user)
	if err != nil {
		t.Fatalf("GetBySessionForUser: %v", err)
	}
	if got == nil || len(got.Metrics) != 2 || got.Metrics[0].Name != "Question Coverage" {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Interview == nil || got.Interview.JobListing == nil {
		t.Fatalf("interview summary not preloaded")
	}
}
