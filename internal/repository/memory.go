package repository

import (
	"context"
	"sync"

	"github.com/m2tx/kinchat/internal/model"
)

// DefaultMemoryCapacity bounds a MemoryExchangeRepository created with a
// non-positive capacity.
const DefaultMemoryCapacity = 256

// MemoryExchangeRepository keeps the most recent exchanges in a ring buffer.
// It is used when no MongoDB URI is configured.
type MemoryExchangeRepository struct {
	mu    sync.Mutex
	ring  []model.Exchange
	next  int
	count int
}

// NewMemoryExchangeRepository creates a repository holding at most capacity records.
func NewMemoryExchangeRepository(capacity int) *MemoryExchangeRepository {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryExchangeRepository{ring: make([]model.Exchange, capacity)}
}

func (r *MemoryExchangeRepository) Record(_ context.Context, exchange model.Exchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ring[r.next] = exchange
	r.next = (r.next + 1) % len(r.ring)
	if r.count < len(r.ring) {
		r.count++
	}

	return nil
}

func (r *MemoryExchangeRepository) Recent(_ context.Context, limit int) ([]model.Exchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > r.count {
		limit = r.count
	}

	out := make([]model.Exchange, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.ring)) % len(r.ring)
		out = append(out, r.ring[idx])
	}

	return out, nil
}
