package memory

import (
	"context"
	"sync"

	"meditrack/internal/domain/history"
)

type historyRepo struct {
	mu      sync.RWMutex
	entries []history.Entry
}

// NewHistoryRepo crea un repo local del ledger en memoria.
func NewHistoryRepo() history.Repository {
	return &historyRepo{}
}

func (r *historyRepo) Load(ctx context.Context) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]history.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *historyRepo) Save(ctx context.Context, entries []history.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make([]history.Entry, len(entries))
	copy(r.entries, entries)
	return nil
}
