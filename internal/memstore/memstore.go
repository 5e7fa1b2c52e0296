// Package memstore keeps the ledger in process memory. It backs tests and
// the "memory" data backend; nothing survives the process.
package memstore

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"housetab/internal/core"
)

type Store struct {
	mu     sync.Mutex
	months core.Store
}

func New() *Store {
	return &Store{months: core.NewStore()}
}

// Load returns a deep copy so callers can mutate freely before saving.
func (s *Store) Load(_ context.Context) (core.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneStore(s.months), nil
}

// Save replaces the held ledger with a deep copy of the given store.
func (s *Store) Save(_ context.Context, store core.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months = cloneStore(store)
	return nil
}

func cloneStore(in core.Store) core.Store {
	out := core.NewStore()
	for _, key := range in.Keys() {
		m := in[key]
		costs := make([]core.AdditionalCost, len(m.AdditionalCosts))
		copy(costs, m.AdditionalCosts)
		payments := make([]decimal.Decimal, len(m.Payments))
		copy(payments, m.Payments)
		clone := *m
		clone.AdditionalCosts = costs
		clone.Payments = payments
		out.Put(&clone)
	}
	return out
}
