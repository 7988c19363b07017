package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
	"github.com/yungbote/interviewprep-backend/internal/pkg/pointers"
)

func TestResponseSubmitGuards(t *testing.T) {
	e := newTestEnv(t, nil)
	user := uuid.New()
	iv, qs := e.seedInterview(t, user)
	session, err := e.sessions.Create(e.dbc, user, iv.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cases := []struct {
		name string
		in   SubmitResponseInput
		code apperr.Code
	}{
		{"verbal without content", SubmitResponseInput{QuestionID: qs[0].ID, CodeResponse: pointers.String("x")}, apperr.CodeValidation},
		{"verbal with blank content", SubmitResponseInput{QuestionID: qs[0].ID, Content: pointers.String("  ")}, apperr.CodeValidation},
		{"code without code_response", SubmitResponseInput{QuestionID: qs[1].ID, Content: pointers.String("text")}, apperr.CodeValidation},
		{"question from another interview", SubmitResponseInput{QuestionID: uuid.New(), Content: pointers.String("text")}, apperr.CodeNotFound},
		{"negative response time", SubmitResponseInput{QuestionID: qs[0].ID, Content: pointers.String("ok"), ResponseTime: pointers.Int(-1)}, apperr.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.responses.Submit(e.dbc, session.ID, user, tc.in)
			if !apperr.IsCode(err, tc.code) {
				t.Fatalf("want %s got %v", tc.code, err)
			}
		})
	}
	// Rejected submissions never start the session.
	mustStatus(t, e, session.ID, types.SessionPending)

	if _, err := e.responses.Submit(e.dbc, session.ID, user, SubmitResponseInput{QuestionID: qs[0].ID, Content: pointers.String("first")}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_, err = e.responses.Submit(e.dbc, session.ID, user, SubmitResponseInput{QuestionID: qs[0].ID, Content: pointers.String("second")})
	if !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("duplicate: expected conflict, got %v", err)
	}

	rows, err := e.responses.ListBySession(e.dbc, session.ID, user)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(rows) != 1 || rows[0].Content != "first" {
		t.Fatalf("ListBySession: duplicate overwrote the original: %+v", rows)
	}
}

func TestResponseRejectedOnceSessionEnded(t *testing.T) {
	for _, status := range []types.SessionStatus{
		types.SessionEnded,
		types.SessionResultProcessing,
		types.SessionResultProcessed,
	} {
		t.Run(string(status), func(t *testing.T) {
			e := newTestEnv(t, nil)
			user := uuid.New()
			iv, qs := e.seedInterview(t, user)
			session := seedSession(t, e, iv.ID, user, status)
			_, err := e.responses.Submit(e.dbc, session.ID, user, SubmitResponseInput{QuestionID: qs[0].ID, Content: pointers.String("late")})
			if !apperr.IsCode(err, apperr.CodeInvalidState) {
				t.Fatalf("expected invalid_state, got %v", err)
			}
		})
	}
}

func TestResponseConcurrentDuplicateConflicts(t *testing.T) {
	e := newTestEnv(t, nil)
	user := uuid.New()
	iv, qs := e.seedInterview(t, user)
	session, err := e.sessions.Create(e.dbc, user, iv.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const writers = 2
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, writers)
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = e.responses.Submit(e.dbc, session.ID, user, SubmitResponseInput{
				QuestionID: qs[0].ID,
				Content:    pointers.String("same answer"),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.IsCode(err, apperr.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != 1 {
		t.Fatalf("want one success and one conflict, got ok=%d conflicts=%d", ok, conflicts)
	}
	rows, err := e.responses.ListBySession(e.dbc, session.ID, user)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("responses: want 1 got %d", len(rows))
	}
	mustStatus(t, e, session.ID, types.SessionOngoing)
}
