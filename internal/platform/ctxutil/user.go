package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type userIDKey struct{}

// WithUserID records the authenticated caller. Services never read it; handlers pass it explicitly.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(Default(ctx), userIDKey{}, id)
}

func UserID(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
