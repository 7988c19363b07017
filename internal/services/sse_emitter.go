package services

import (
	"context"

	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
	"github.com/yungbote/interviewprep-backend/internal/realtime"
	"github.com/yungbote/interviewprep-backend/internal/realtime/bus"
)

// SSEEmitter delivers realtime messages. Delivery is best effort and never fails the caller.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

// HubEmitter broadcasts to clients connected to this process.
type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Hub == nil {
		return
	}
	e.Hub.Broadcast(msg)
}

// RedisEmitter publishes to the bus so every API instance forwards to its own hub.
type RedisEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Bus == nil {
		return
	}
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("SSE publish failed", "event", msg.Event, "error", err)
	}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, realtime.SSEMessage) {}

// NoopEmitter drops every message.
func NoopEmitter() SSEEmitter { return noopEmitter{} }
