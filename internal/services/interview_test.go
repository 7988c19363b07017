package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/interviewprep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
)

func TestInterviewCreateUsesTemplatesAndSkills(t *testing.T) {
	e := newTestEnv(t, nil)
	user := uuid.New()
	listing, err := e.listings.Create(e.dbc, user, CreateJobListingInput{
		Title:   "Frontend Engineer",
		Company: "Acme",
		Skills:  []string{"React", " TypeScript ", "react", ""},
	})
	if err != nil {
		t.Fatalf("Create listing: %v", err)
	}
	if got := skillsOf(listing.Skills); len(got) != 2 {
		t.Fatalf("skills should be trimmed and de-duplicated: %v", got)
	}

	iv, err := e.interviews.Create(e.dbc, user, CreateInterviewInput{JobListingID: listing.ID})
	if err != nil {
		t.Fatalf("Create interview: %v", err)
	}
	if iv.Title != "Frontend Engineer Interview" {
		t.Fatalf("default title: %q", iv.Title)
	}
	qs, err := e.interviews.ListQuestions(e.dbc, iv.ID, user)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(qs) != 7 {
		t.Fatalf("questions: want=7 got=%d", len(qs))
	}
	wantOrder := []int{1, 2, 3, 4, 5, 6, 7}
	codes := 0
	for i, q := range qs {
		if q.Position != wantOrder[i] {
			t.Fatalf("question %d position: want=%d got=%d", i, wantOrder[i], q.Position)
		}
		if q.Type == types.QuestionCode {
			codes++
		}
	}
	if codes != 2 {
		t.Fatalf("CODE questions: want=2 got=%d", codes)
	}
}

func TestInterviewCreateRequiresOwnedSources(t *testing.T) {
	e := newTestEnv(t, nil)
	owner, other := uuid.New(), uuid.New()
	listing := testutil.SeedJobListing(t, e.dbc.Ctx, e.db, owner, "")

	if _, err := e.interviews.Create(e.dbc, other, CreateInterviewInput{JobListingID: listing.ID}); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("foreign listing: expected not_found, got %v", err)
	}
	missing := uuid.New()
	if _, err := e.interviews.Create(e.dbc, owner, CreateInterviewInput{JobListingID: listing.ID, ResumeID: &missing}); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("missing resume: expected not_found, got %v", err)
	}
}

type fakeJSONClient struct {
	payload map[string]any
	err     error
}

func (f *fakeJSONClient) GenerateText(context.Context, string, string) (string, error) {
	return "", f.err
}

func (f *fakeJSONClient) GenerateJSON(_ context.Context, _ string, _ string, out any) error {
	if f.err != nil {
		return f.err
	}
	b, err := json.Marshal(f.payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func TestLLMQuestionGenerator(t *testing.T) {
	log := testutil.Logger(t)
	listing := &types.JobListing{Title: "SRE", Company: "Acme"}

	gen := NewLLMQuestionGenerator(&fakeJSONClient{payload: map[string]any{"questions": []llmQuestion{
		{Content: "Describe an outage you handled.", Type: "verbal"},
		{Content: "", Type: "VERBAL"},
		{Content: "Reverse a list.", Type: "CODE", CodeSnippet: "def rev(xs):"},
		{Content: "Unknown type", Type: "ESSAY"},
	}}}, log)
	qs, err := gen.Generate(context.Background(), listing, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(qs) != 2 || qs[0].Position != 1 || qs[1].Position != 2 || qs[1].Type != types.QuestionCode || qs[1].CodeSnippet == nil {
		t.Fatalf("Generate: unexpected %+v", qs)
	}

	failing := NewLLMQuestionGenerator(&fakeJSONClient{err: errors.New("rate limited")}, log)
	qs, err = failing.Generate(context.Background(), listing, nil)
	if err != nil {
		t.Fatalf("Generate fallback: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("fallback should use the five base templates, got %d", len(qs))
	}
}
