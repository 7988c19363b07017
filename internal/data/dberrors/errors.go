package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
)

// IsUniqueViolation recognises duplicate-key failures from either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.TrimSpace(pgErr.Code) == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint failed")
}

// Map converts storage failures into coded errors. conflictMsg is used for unique violations.
func Map(op string, err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if apperr.CodeOf(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.CodeNotFound, op, err)
	case IsUniqueViolation(err):
		if conflictMsg == "" {
			conflictMsg = "duplicate key"
		}
		return &apperr.Error{Code: apperr.CodeConflict, Op: op, Message: conflictMsg, Cause: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.TrimSpace(pgErr.Code) == "23503" {
		return apperr.Wrap(apperr.CodeValidation, op, err)
	}
	return apperr.Wrap(apperr.CodeInternal, op, err)
}
