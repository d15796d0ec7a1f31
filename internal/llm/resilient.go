package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jtblnchrd-eng/AutoContent/internal/ratelimit"
	"github.com/jtblnchrd-eng/AutoContent/internal/retry"
)

// maxAttempts is the number of tries for one completion.
const maxAttempts = 2

// Resilient retries a Completer once and charges every attempt to a budget.
// An exhausted budget is not retried.
type Resilient struct {
	next   Completer
	budget *ratelimit.LLMBudget
	retry  retry.RetryConfig
}

func NewResilient(next Completer, budget *ratelimit.LLMBudget, delay time.Duration) *Resilient {
	return &Resilient{
		next:   next,
		budget: budget,
		retry:  retry.RetryConfig{MaxAttempts: maxAttempts, Delay: delay},
	}
}

func (r *Resilient) Complete(ctx context.Context, req Request) (string, error) {
	var out string

	err := retry.WithRetry(ctx, r.retry, func(attempt int) error {
		if err := r.budget.Use(req.Purpose); err != nil {
			return retry.Permanent(err)
		}

		slog.Info("Querying LLM", "purpose", req.Purpose, "attempt", attempt, "of", r.retry.MaxAttempts)
		text, err := r.next.Complete(ctx, req)
		if err != nil {
			slog.Warn("LLM attempt failed", "purpose", req.Purpose, "attempt", attempt, "error", err)
			return err
		}
		if strings.TrimSpace(text) == "" {
			slog.Warn("Empty response from LLM", "purpose", req.Purpose, "attempt", attempt)
			return ErrEmptyResponse
		}

		slog.Info("Received LLM response", "purpose", req.Purpose, "chars", len(text))
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// Ping forwards to the wrapped backend when it can be probed.
func (r *Resilient) Ping(ctx context.Context) error {
	if p, ok := r.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
