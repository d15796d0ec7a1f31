package ratelimit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrBudgetExhausted is returned by Use once the run has spent its LLM requests.
var ErrBudgetExhausted = errors.New("llm request budget exhausted")

// LLMBudget caps the number of LLM requests a single run may issue.
// A zero max means unlimited.
type LLMBudget struct {
	mu        sync.Mutex
	max       int
	used      int
	denied    int
	byPurpose map[string]int
}

// NewLLMBudget creates a budget allowing max requests (0 = unlimited).
func NewLLMBudget(max int) *LLMBudget {
	if max < 0 {
		max = 0
	}
	return &LLMBudget{
		max:       max,
		byPurpose: make(map[string]int),
	}
}

// Use records one request for purpose or returns ErrBudgetExhausted.
func (b *LLMBudget) Use(purpose string) error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		b.denied++
		slog.Warn("LLM request budget reached", "used", b.used, "max", b.max, "purpose", purpose)
		return fmt.Errorf("%s: %w", purpose, ErrBudgetExhausted)
	}

	b.used++
	b.byPurpose[purpose]++
	slog.Debug("LLM usage", "purpose", purpose, "used", b.used, "max", b.max)
	return nil
}

// GetStats returns current budget statistics
func (b *LLMBudget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	purposes := make(map[string]int, len(b.byPurpose))
	for k, v := range b.byPurpose {
		purposes[k] = v
	}

	return map[string]interface{}{
		"llm_used":     b.used,
		"llm_limit":    b.max,
		"llm_denied":   b.denied,
		"llm_purposes": purposes,
	}
}
