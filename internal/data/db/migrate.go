package db

import (
	"fmt"

	types "github.com/yungbote/interviewprep-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.All()...); err != nil {
		return err
	}
	if db.Dialector.Name() == "postgres" {
		return EnsureJobIndexes(db)
	}
	return nil
}

// EnsureJobIndexes adds the partial index the worker's claim query scans.
func EnsureJobIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_job_run_runnable
		ON job_run(created_at)
		WHERE status IN ('queued', 'failed', 'running');
	`).Error; err != nil {
		return fmt.Errorf("create idx_job_run_runnable: %w", err)
	}
	return nil
}
