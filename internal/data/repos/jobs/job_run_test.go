package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/interviewprep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"github.com/yungbote/interviewprep-backend/internal/pkg/dbctx"
)

func TestJobRunRepoClaimOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewJobRunRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	owner := uuid.New()

	queued := &types.JobRun{
		OwnerUserID: owner,
		JobType:     "result_aggregate",
		EntityType:  "interview_session",
		EntityID:    ptrUUID(uuid.New()),
		Status:      "queued",
		CreatedAt:   now.Add(-3 * time.Hour),
		UpdatedAt:   now.Add(-3 * time.Hour),
	}
	failed := &types.JobRun{
		OwnerUserID: owner,
		JobType:     "result_aggregate",
		EntityType:  "interview_session",
		EntityID:    ptrUUID(uuid.New()),
		Status:      "failed",
		Attempts:    1,
		LastErrorAt: ptrTime(now.Add(-2 * time.Hour)),
		CreatedAt:   now.Add(-2 * time.Hour),
		UpdatedAt:   now.Add(-2 * time.Hour),
	}
	staleRunning := &types.JobRun{
		OwnerUserID: owner,
		JobType:     "chat_reply",
		EntityType:  "interview_session",
		EntityID:    ptrUUID(uuid.New()),
		Status:      "running",
		Attempts:    1,
		HeartbeatAt: ptrTime(now.Add(-10 * time.Hour)),
		CreatedAt:   now.Add(-1 * time.Hour),
		UpdatedAt:   now.Add(-1 * time.Hour),
	}
	exhausted := &types.JobRun{
		OwnerUserID: owner,
		JobType:     "result_aggregate",
		Status:      "failed",
		Attempts:    3,
		LastErrorAt: ptrTime(now.Add(-5 * time.Hour)),
		CreatedAt:   now.Add(-5 * time.Hour),
		UpdatedAt:   now.Add(-5 * time.Hour),
	}

	created, err := repo.Create(dbc, []*types.JobRun{queued, failed, staleRunning, exhausted})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("Create: expected 4, got %d", len(created))
	}

	want := []uuid.UUID{queued.ID, failed.ID, staleRunning.ID}
	for i, id := range want {
		claimed, err := repo.ClaimNextRunnable(dbc, 3, time.Hour, time.Hour)
		if err != nil {
			t.Fatalf("ClaimNextRunnable #%d: %v", i+1, err)
		}
		if claimed == nil || claimed.ID != id {
			t.Fatalf("ClaimNextRunnable #%d: expected %v got %v", i+1, id, claimed)
		}
		if claimed.Status != "running" {
			t.Fatalf("ClaimNextRunnable #%d: status %q", i+1, claimed.Status)
		}
	}
	if claimed, err := repo.ClaimNextRunnable(dbc, 3, time.Hour, time.Hour); err != nil || claimed != nil {
		t.Fatalf("ClaimNextRunnable: expected nothing runnable, got %v err=%v", claimed, err)
	}

	got, err := repo.GetByID(dbc, failed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Attempts != 2 {
		t.Fatalf("claim must bump attempts, got %d", got.Attempts)
	}
}

func TestJobRunRepoConditionalUpdates(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewJobRunRepo(db, testutil.Logger(t))

	owner := uuid.New()
	entityID := uuid.New()
	job := &types.JobRun{
		OwnerUserID: owner,
		JobType:     "result_aggregate",
		EntityType:  "interview_session",
		EntityID:    &entityID,
	}
	if _, err := repo.Create(dbc, []*types.JobRun{job}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != "queued" {
		t.Fatalf("default status: %q", job.Status)
	}

	has, err := repo.HasRunnableForEntity(dbc, "interview_session", entityID, "result_aggregate")
	if err != nil || !has {
		t.Fatalf("HasRunnableForEntity: has=%v err=%v", has, err)
	}

	if err := repo.UpdateFields(dbc, job.ID, map[string]interface{}{"status": "canceled"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	ok, err := repo.UpdateFieldsUnlessStatus(dbc, job.ID, []string{"canceled"}, map[string]interface{}{"status": "succeeded"})
	if err != nil {
		t.Fatalf("UpdateFieldsUnlessStatus: %v", err)
	}
	if ok {
		t.Fatalf("UpdateFieldsUnlessStatus: canceled job must not be overwritten")
	}

	latest, err := repo.GetLatestByEntity(dbc, "interview_session", entityID, "result_aggregate")
	if err != nil {
		t.Fatalf("GetLatestByEntity: %v", err)
	}
	if latest == nil || latest.Status != "canceled" {
		t.Fatalf("GetLatestByEntity: got %+v", latest)
	}

	if other, err := repo.GetByIDForOwner(dbc, job.ID, uuid.New()); err != nil || other != nil {
		t.Fatalf("GetByIDForOwner: foreign owner must not see job, got %v err=%v", other, err)
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func ptrTime(t time.Time) *time.Time { return &t }
