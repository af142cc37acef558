package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type stubRepo struct {
	saved   [][]Entry
	loadErr error
	entries []Entry
}

func (r *stubRepo) Load(ctx context.Context) ([]Entry, error) { return r.entries, r.loadErr }
func (r *stubRepo) Save(ctx context.Context, entries []Entry) error {
	r.saved = append(r.saved, entries)
	return nil
}

type stubSource struct {
	rows [][]string
	err  error
}

func (s *stubSource) Fetch(ctx context.Context, rng string) ([][]string, error) {
	return s.rows, s.err
}

func TestAppend_HeadInsertAndMergedView(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil, "", 0, nil)

	svc.Append(context.Background(), "Med A", "1 tab", StatusTaken, "Confirmed (attempt 1)")
	svc.Append(context.Background(), "Med B", "", StatusMissed, "Auto-missed (attempt 1)")

	merged := svc.Merged()
	if len(merged) != 2 {
		t.Fatalf("append must reflect immediately, got %d", len(merged))
	}
	// Inserción por cabeza: el más reciente primero en el ledger local.
	if merged[0].Medicine != "Med B" {
		t.Fatalf("expected head insert, got %+v", merged[0])
	}
	if len(repo.saved) != 2 {
		t.Fatalf("expected persist per append, got %d saves", len(repo.saved))
	}
}

func TestAppend_CapEvictsOldest(t *testing.T) {
	svc := NewService(&stubRepo{}, nil, "", 0, nil)

	for i := 0; i < DefaultLocalCap+1; i++ {
		svc.Append(context.Background(), fmt.Sprintf("med-%d", i), "", StatusTaken, "")
	}

	if got := svc.LocalLen(); got != DefaultLocalCap {
		t.Fatalf("local ledger must stay at %d, got %d", DefaultLocalCap, got)
	}

	// El registro #0 (el más viejo) fue desalojado.
	for _, e := range svc.Merged() {
		if e.Medicine == "med-0" {
			t.Fatal("oldest entry should have been evicted")
		}
	}
}

func TestRefresh_MergedIsRemotePlusLocal(t *testing.T) {
	src := &stubSource{rows: [][]string{
		{"2024-01-01T09:00:00Z", "Remota", "1", "taken", "sheet row"},
	}}
	svc := NewService(&stubRepo{}, src, "History!A2:E1000", 0, nil)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	svc.Append(context.Background(), "Local", "", StatusMissed, "Snoozed to retry (user snooze)")

	merged := svc.Merged()
	if len(merged) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(merged))
	}
	if merged[0].Medicine != "Remota" || merged[0].Status != StatusTaken {
		t.Fatalf("remote row mapped wrong: %+v", merged[0])
	}

	src.err = errors.New("network down")
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if len(svc.Merged()) != 1 {
		t.Fatal("failure must degrade to local-only")
	}
}

func TestRecent_SortsNewestFirst(t *testing.T) {
	svc := NewService(&stubRepo{}, nil, "", 0, nil)
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	next := base
	svc.now = func() time.Time {
		next = next.Add(time.Minute)
		return next
	}

	svc.Append(context.Background(), "primera", "", StatusTaken, "")
	svc.Append(context.Background(), "segunda", "", StatusTaken, "")
	svc.Append(context.Background(), "tercera", "", StatusTaken, "")

	got := svc.Recent(2)
	if len(got) != 2 || got[0].Medicine != "tercera" || got[1].Medicine != "segunda" {
		t.Fatalf("wrong order/limit: %+v", got)
	}
}

func TestParseTimestamp_Fallbacks(t *testing.T) {
	if ts := parseTimestamp("2024-03-01 10:30:00"); ts.IsZero() {
		t.Fatal("space-separated timestamp should parse")
	}
	if ts := parseTimestamp("garbage"); !ts.IsZero() {
		t.Fatal("garbage should map to zero time")
	}
}

func TestAppend_ConcurrentAppendsEndWithLatestSnapshot(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil, "", 0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.Append(context.Background(), fmt.Sprintf("med-%d", i), "1 tab", StatusTaken, "Confirmed (UI)")
		}(i)
	}
	wg.Wait()

	if len(repo.saved) == 0 {
		t.Fatal("expected persisted snapshots")
	}
	last := repo.saved[len(repo.saved)-1]
	if len(last) != 8 {
		t.Fatalf("last persisted snapshot has %d entries, want 8", len(last))
	}
}
