// Package llm talks to text-generation backends. Every backend satisfies
// Completer; Resilient wraps one with the per-run budget and a bounded retry.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyResponse is returned when a backend answers with blank text.
var ErrEmptyResponse = errors.New("empty response from LLM")

// Request is one chat-style completion call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Purpose     string // "select" or "generate", used for budget accounting and logs
}

// Completer turns a Request into generated text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Pinger is implemented by backends that can be probed for availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe checks that the backend answers within timeout.
func Probe(ctx context.Context, p Pinger, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("llm probe: %w", err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
