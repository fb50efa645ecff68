// Package reqctx tags a search run with an ID that follows it through logs and errors.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type key int

const runKey key = 0

// RunContext identifies one search run.
type RunContext struct {
	RunID     string
	StartTime time.Time
}

// WithRunContext returns a child context carrying a fresh run ID.
func WithRunContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     generateID(),
		StartTime: time.Now(),
	})
}

// FromContext returns the run attached to ctx, or a placeholder with ID "unknown".
func FromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns logger with the run_id field of ctx attached.
func Logger(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	return logger.With().Str("run_id", FromContext(ctx).RunID).Logger()
}

// Elapsed is the time since the run started.
func Elapsed(ctx context.Context) time.Duration {
	return time.Since(FromContext(ctx).StartTime)
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RunError wraps an error with the ID of the run that produced it
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[run %s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError wraps err with the run ID from ctx
func NewRunError(ctx context.Context, err error) error {
	return &RunError{
		RunID: FromContext(ctx).RunID,
		Err:   err,
	}
}
