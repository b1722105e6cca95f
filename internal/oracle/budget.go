package oracle

import (
	"context"
	"sync"

	"github.com/veritaslens/newscast/internal/logger"
)

// Budget caps the number of oracle calls in one run. An exhausted
// budget answers with the empty response instead of an error, which
// the pipeline already treats as "no usable output".
type Budget struct {
	mu    sync.Mutex
	max   int // 0 = unlimited
	count int
}

func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

func (b *Budget) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.count >= b.max {
		return false
	}
	b.count++
	return true
}

// Used returns how many calls the budget has admitted.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Limit wraps o so each call draws from the budget.
func (b *Budget) Limit(o Oracle, name string) Oracle {
	return Func(func(ctx context.Context, prompt string) (string, error) {
		if !b.allow() {
			logger.Warn("Oracle call budget exhausted", "oracle", name, "max", b.max)
			return "", nil
		}
		return o.Generate(ctx, prompt)
	})
}
