package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/realtime"
)

func TestRedisBusRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}

	b, err := NewRedisBus(log, mr.Addr(), "sse-test")
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	got := make(chan realtime.SSEMessage, 1)
	if err := b.StartForwarder(ctx, func(m realtime.SSEMessage) { got <- m }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	msg := realtime.SSEMessage{Channel: "user-1", Event: realtime.SSEEventResultReady, Data: map[string]any{"overall_score": 81.5}}
	if err := b.Publish(ctx, msg); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case m := <-got:
		if m.Channel != "user-1" || m.Event != realtime.SSEEventResultReady {
			t.Fatalf("unexpected message %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for forwarded message")
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	log, _ := logger.New("test")
	if _, err := NewRedisBus(log, " ", ""); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
