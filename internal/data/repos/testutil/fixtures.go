package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/interviewprep-backend/internal/domain"
)

func SeedJobListing(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, skills string) *types.JobListing {
	tb.Helper()
	if skills == "" {
		skills = "[]"
	}
	jl := &types.JobListing{
		UserID:  userID,
		Title:   "Backend Engineer",
		Company: "Acme",
		Skills:  datatypes.JSON([]byte(skills)),
	}
	if err := tx.WithContext(ctx).Create(jl).Error; err != nil {
		tb.Fatalf("seed job listing: %v", err)
	}
	return jl
}

// SeedInterview creates an interview whose questions have the given types, in order.
func SeedInterview(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, qtypes ...types.QuestionType) (*types.Interview, []types.Question) {
	tb.Helper()
	jl := SeedJobListing(tb, ctx, tx, userID, "")
	iv := &types.Interview{
		UserID:       userID,
		JobListingID: jl.ID,
		Title:        jl.Title + " Interview",
	}
	if err := tx.WithContext(ctx).Create(iv).Error; err != nil {
		tb.Fatalf("seed interview: %v", err)
	}
	qs := make([]types.Question, 0, len(qtypes))
	for i, qt := range qtypes {
		q := types.Question{
			InterviewID: iv.ID,
			Position:    i + 1,
			Type:        qt,
			Content:     "question",
		}
		if err := tx.WithContext(ctx).Create(&q).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		qs = append(qs, q)
	}
	return iv, qs
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, interviewID, userID uuid.UUID, status types.SessionStatus) *types.InterviewSession {
	tb.Helper()
	s := &types.InterviewSession{
		InterviewID: interviewID,
		UserID:      userID,
		Status:      status,
		StartedAt:   time.Now().UTC(),
		IsCameraOn:  true,
		IsMicOn:     true,
	}
	if status.Ended() {
		now := time.Now().UTC()
		s.EndedAt = &now
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedResponse(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, q types.Question, content string) *types.Response {
	tb.Helper()
	r := &types.Response{
		SessionID:  sessionID,
		QuestionID: q.ID,
		Content:    content,
	}
	if q.Type == types.QuestionCode {
		code := "func f() {}"
		r.CodeResponse = &code
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed response: %v", err)
	}
	return r
}

func SeedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, job *types.JobRun) *types.JobRun {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(job).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return job
}
