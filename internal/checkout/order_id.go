package checkout

import (
	"fmt"
	"sync"
	"time"
)

// OrderIDGenerator issues order numbers of the form ORD-NNNNNN, where the digits are the last
// six digits of a millisecond clock that never repeats or goes backwards.
// Shared across sessions so two orders placed in the same millisecond still differ.
type OrderIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewOrderIDGenerator() *OrderIDGenerator {
	return &OrderIDGenerator{now: time.Now}
}

// Next returns a fresh order number.
func (g *OrderIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("ORD-%06d", ms%1_000_000)
}
