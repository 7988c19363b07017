package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "nope")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 7 {
		t.Fatalf("Int: got %d want 7", got)
	}
	t.Setenv("ENVUTIL_TEST_INT", " 12 ")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 12 {
		t.Fatalf("Int: got %d want 12", got)
	}
}

func TestDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_DUR", "45")
	if got := Duration("ENVUTIL_TEST_DUR", time.Second); got != 45*time.Second {
		t.Fatalf("Duration: got %v", got)
	}
	t.Setenv("ENVUTIL_TEST_DUR", "2m")
	if got := Duration("ENVUTIL_TEST_DUR", time.Second); got != 2*time.Minute {
		t.Fatalf("Duration: got %v", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_BOOL", "off")
	if Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("Bool: expected false")
	}
	t.Setenv("ENVUTIL_TEST_BOOL", "")
	if !Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("Bool: expected default true")
	}
}
