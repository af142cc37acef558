package memory

import (
	"context"
	"sync"

	"meditrack/internal/domain/schedule"
)

type scheduleRepo struct {
	mu      sync.RWMutex
	entries []schedule.Entry
}

// NewScheduleRepo crea un repo local de schedule en memoria (para dev y
// tests; no sobrevive al proceso).
func NewScheduleRepo() schedule.Repository {
	return &scheduleRepo{}
}

func (r *scheduleRepo) Load(ctx context.Context) ([]schedule.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *scheduleRepo) Save(ctx context.Context, entries []schedule.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make([]schedule.Entry, len(entries))
	copy(r.entries, entries)
	return nil
}
