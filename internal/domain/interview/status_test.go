package interview

import "testing"

func TestLifecycleIsStrictlyForward(t *testing.T) {
	path := []SessionStatus{SessionPending, SessionOngoing, SessionEnded, SessionResultProcessing, SessionResultProcessed}
	for i := 0; i+1 < len(path); i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Fatalf("expected %s -> %s to be legal", path[i], path[i+1])
		}
		if CanTransition(path[i+1], path[i]) {
			t.Fatalf("expected %s -> %s to be illegal", path[i+1], path[i])
		}
		if path[i].Rank() >= path[i+1].Rank() {
			t.Fatalf("rank not increasing at %s", path[i])
		}
	}
	if CanTransition(SessionPending, SessionResultProcessing) {
		t.Fatalf("skipping ENDED must be illegal")
	}
	if !CanTransition(SessionResultProcessing, SessionResultFailed) {
		t.Fatalf("RESULT_PROCESSING -> RESULT_FAILED must be legal")
	}
	if CanTransition(SessionEnded, SessionResultFailed) {
		t.Fatalf("RESULT_FAILED must only follow RESULT_PROCESSING")
	}
}

func TestGuards(t *testing.T) {
	if SessionEnded.Completed() {
		t.Fatalf("ENDED still accepts chat")
	}
	if !SessionEnded.Ended() {
		t.Fatalf("ENDED rejects responses")
	}
	for _, s := range []SessionStatus{SessionResultProcessing, SessionResultProcessed, SessionResultFailed} {
		if !s.Completed() || !s.Ended() {
			t.Fatalf("%s should reject chat and responses", s)
		}
	}
	if SessionOngoing.Ended() {
		t.Fatalf("ONGOING accepts responses")
	}
}
