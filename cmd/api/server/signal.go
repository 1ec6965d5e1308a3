package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal returns a context that is canceled when SIGINT or SIGTERM is
// received.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
