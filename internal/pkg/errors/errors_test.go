package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeSurvivesWrapping(t *testing.T) {
	base := InvalidState("session.End", "session has already ended")
	wrapped := fmt.Errorf("handler: %w", base)
	if !IsCode(wrapped, CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %q", CodeOf(wrapped))
	}
	if got := MessageOf(wrapped); got != "session has already ended" {
		t.Fatalf("MessageOf: got %q", got)
	}
}

func TestInternalKeepsExistingCode(t *testing.T) {
	nf := NotFound("op", "missing")
	if got := Internal("outer", nf); got != nf {
		t.Fatalf("Internal re-wrapped a coded error")
	}
	raw := stderrors.New("disk on fire")
	got := Internal("outer", raw)
	if !IsCode(got, CodeInternal) || !stderrors.Is(got, raw) {
		t.Fatalf("Internal: unexpected %v", got)
	}
	if MessageOf(got) != "internal error" {
		t.Fatalf("internal messages must not leak, got %q", MessageOf(got))
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeInvalidState: http.StatusConflict,
		CodeValidation:   http.StatusBadRequest,
		CodeInternal:     http.StatusInternalServerError,
		"":               http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Fatalf("HTTPStatus(%q) = %d want %d", code, got, want)
		}
	}
}
