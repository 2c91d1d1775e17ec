// Package requestid carries a per-call request ID through context so that
// client logs and backend logs can be correlated via the X-Request-ID header.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header the ID travels in.
const Header = "X-Request-ID"

type ctxKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or a fresh one.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Ensure returns ctx carrying a request ID, generating one if absent.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}
