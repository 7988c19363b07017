package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperr "github.com/yungbote/interviewprep-backend/internal/pkg/errors"
)

func TestMapUniqueViolations(t *testing.T) {
	cases := []error{
		gorm.ErrDuplicatedKey,
		&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
		fmt.Errorf("insert: %w", errors.New("UNIQUE constraint failed: response.session_id, response.question_id")),
	}
	for _, in := range cases {
		got := Map("op", in, "response already exists")
		if !apperr.IsCode(got, apperr.CodeConflict) {
			t.Fatalf("Map(%v): expected conflict, got %v", in, got)
		}
		if apperr.MessageOf(got) != "response already exists" {
			t.Fatalf("Map(%v): message %q", in, apperr.MessageOf(got))
		}
	}
}

func TestMapNotFoundAndPassthrough(t *testing.T) {
	if got := Map("op", gorm.ErrRecordNotFound, ""); !apperr.IsCode(got, apperr.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", got)
	}
	coded := apperr.InvalidState("op", "nope")
	if got := Map("op", coded, ""); got != coded {
		t.Fatalf("coded errors must pass through")
	}
	if got := Map("op", errors.New("boom"), ""); !apperr.IsCode(got, apperr.CodeInternal) {
		t.Fatalf("expected internal, got %v", got)
	}
	if Map("op", nil, "") != nil {
		t.Fatalf("nil must map to nil")
	}
}
