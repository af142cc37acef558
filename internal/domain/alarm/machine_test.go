package alarm

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"meditrack/internal/domain/history"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/ports/notify"
)

// --- clock falso ---

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance dispara en orden los timers vencidos. Cada callback corre
// fuera del lock del clock (puede agendar timers nuevos).
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.fired = true
		f := next.f
		c.mu.Unlock()
		f()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// --- stubs de repos/sinks ---

type schedRepo struct{ entries []schedule.Entry }

func (r *schedRepo) Load(ctx context.Context) ([]schedule.Entry, error) { return r.entries, nil }
func (r *schedRepo) Save(ctx context.Context, entries []schedule.Entry) error {
	r.entries = entries
	return nil
}

type histRepo struct{ entries []history.Entry }

func (r *histRepo) Load(ctx context.Context) ([]history.Entry, error) { return r.entries, nil }
func (r *histRepo) Save(ctx context.Context, entries []history.Entry) error {
	r.entries = entries
	return nil
}

type rowSource struct{ rows [][]string }

func (s *rowSource) Fetch(ctx context.Context, rng string) ([][]string, error) {
	return s.rows, nil
}

type recordingSink struct {
	notify.Nop
	mu        sync.Mutex
	activated []int // attempts, en orden
	resolved  []notify.Outcome
}

func (s *recordingSink) AlarmActivated(item notify.Intake, attempt, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activated = append(s.activated, attempt)
}

func (s *recordingSink) AlarmResolved(item notify.Intake, outcome notify.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = append(s.resolved, outcome)
}

// --- armado ---

type fixture struct {
	clock *fakeClock
	sched *schedule.Service
	hist  *history.Service
	sink  *recordingSink
	m     *Machine
}

func newFixture(t *testing.T, rows [][]string) *fixture {
	t.Helper()

	sched := schedule.NewService(&schedRepo{}, &rowSource{rows: rows}, "rng", nil)
	if err := sched.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	hist := history.NewService(&histRepo{}, nil, "", 0, nil)
	clock := newFakeClock()
	sink := &recordingSink{}

	m := New(Options{
		Schedule: sched,
		History:  hist,
		Sink:     sink,
		Clock:    clock,
	})
	return &fixture{clock: clock, sched: sched, hist: hist, sink: sink, m: m}
}

func seedRow(id string) []string {
	return []string{id, "Amoxicilina", "500mg", "2024-06-01", "09:00", "", ""}
}

func entryKey(id string) schedule.Key {
	return schedule.Key{ID: id, Date: "2024-06-01", Time: "09:00"}
}

func histNotes(h *history.Service) []string {
	entries := h.Merged()
	notes := make([]string, 0, len(entries))
	for _, e := range entries {
		notes = append(notes, e.Status+"|"+e.Note)
	}
	sort.Strings(notes)
	return notes
}

// --- tests ---

func TestActivate_SingleFlight(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})
	entry, _ := f.sched.Find(entryKey("r1"))

	f.m.Activate(entry)
	f.m.Activate(entry)

	if got := len(f.m.Open()); got != 1 {
		t.Fatalf("expected exactly one open alarm, got %d", got)
	}
	if got := len(f.sink.activated); got != 1 {
		t.Fatalf("expected one activation notification, got %d", got)
	}
}

func TestActivate_TakenIsNoop(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})
	entry, _ := f.sched.Find(entryKey("r1"))
	entry.Status = schedule.StatusTaken

	f.m.Activate(entry)
	if len(f.m.Open()) != 0 {
		t.Fatal("taken entry must not alarm")
	}
}

func TestTimeout_EscalatesThenTerminates(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})
	entry, _ := f.sched.Find(entryKey("r1"))
	f.m.Activate(entry)

	// Intento 1 sin respuesta.
	f.clock.Advance(DefaultResponseTimeout)

	notes := histNotes(f.hist)
	if len(notes) != 1 || notes[0] != "MISSED|Auto-missed (attempt 1)" {
		t.Fatalf("expected one attempt-1 miss, got %v", notes)
	}
	if e, _ := f.sched.Find(entryKey("r1")); e.Status != schedule.StatusMissed {
		t.Fatalf("schedule status = %q", e.Status)
	}

	open := f.m.Open()
	if len(open) != 1 || open[0].Attempt != 2 {
		t.Fatalf("expected pending retry at attempt 2, got %+v", open)
	}

	// El reintento reactiva exactamente a los 300s.
	f.clock.Advance(DefaultRetryDelay - time.Second)
	if len(f.sink.activated) != 1 {
		t.Fatal("retry must not fire before the full delay")
	}
	f.clock.Advance(time.Second)
	if len(f.sink.activated) != 2 || f.sink.activated[1] != 2 {
		t.Fatalf("expected reactivation at attempt 2, got %v", f.sink.activated)
	}

	// Intento 2 sin respuesta: terminal.
	f.clock.Advance(DefaultResponseTimeout)
	notes = histNotes(f.hist)
	if len(notes) != 2 || notes[1] != "MISSED|Auto-missed (attempt 2)" {
		t.Fatalf("expected final miss, got %v", notes)
	}
	if len(f.m.Open()) != 0 {
		t.Fatal("terminal miss must discard the alarm state")
	}
	if got := f.sink.resolved; len(got) != 1 || got[0] != notify.OutcomeMissed {
		t.Fatalf("expected missed resolution, got %v", got)
	}

	// Sin timers colgando: avanzar más no produce historial nuevo.
	before := len(f.hist.Merged())
	f.clock.Advance(time.Hour)
	if len(f.hist.Merged()) != before {
		t.Fatal("no further history after terminal state")
	}
	if f.clock.pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", f.clock.pending())
	}
}

func TestConfirm_CancelsEverything(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})
	entry, _ := f.sched.Find(entryKey("r1"))
	f.m.Activate(entry)

	f.clock.Advance(10 * time.Second)
	f.m.Confirm(entryKey("r1"))

	notes := histNotes(f.hist)
	if len(notes) != 1 || notes[0] != "TAKEN|Confirmed (attempt 1)" {
		t.Fatalf("expected single attempt-1 confirmation, got %v", notes)
	}
	if e, _ := f.sched.Find(entryKey("r1")); e.Status != schedule.StatusTaken {
		t.Fatalf("schedule status = %q", e.Status)
	}
	if len(f.m.Open()) != 0 {
		t.Fatal("confirm must discard the alarm state")
	}

	// Ningún timer sobrevive: nada nuevo en el ledger hasta t+600s.
	f.clock.Advance(600 * time.Second)
	if got := len(f.hist.Merged()); got != 1 {
		t.Fatalf("expected history to stay at 1 entry, got %d", got)
	}
	if f.clock.pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", f.clock.pending())
	}
}

func TestConfirm_AtAttempt2NotesAttempt(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})
	entry, _ := f.sched.Find(entryKey("r1"))
	f.m.Activate(entry)

	f.clock.Advance(DefaultResponseTimeout) // pierde intento 1
	f.clock.Advance(DefaultRetryDelay)      // reentra en intento 2
	f.m.Confirm(entryKey("r1"))

	notes := histNotes(f.hist)
	want := "TAKEN|Confirmed (attempt 2)"
	found := false
	for _, n := range notes {
		if n == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q in %v", want, notes)
	}
}

func TestConfirm_NoAlarmStillRecords(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})

	f.m.Confirm(entryKey("r1"))

	notes := histNotes(f.hist)
	if len(notes) != 1 || notes[0] != "TAKEN|Confirmed (UI)" {
		t.Fatalf("expected UI confirmation, got %v", notes)
	}
	if e, _ := f.sched.Find(entryKey("r1")); e.Status != schedule.StatusTaken {
		t.Fatalf("schedule status = %q", e.Status)
	}
}

func TestConfirm_UnknownIdentityFallsBackToMostRecent(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1"), seedRow("r2")})
	e1, _ := f.sched.Find(entryKey("r1"))
	e2, _ := f.sched.Find(entryKey("r2"))
	f.m.Activate(e1)
	f.m.Activate(e2)

	f.m.Confirm(schedule.Key{ID: "no-such", Date: "2000-01-01", Time: "00:00"})

	open := f.m.Open()
	if len(open) != 1 || open[0].Key.ID != "r1" {
		t.Fatalf("expected most recent (r2) resolved, got %+v", open)
	}
}

func TestConfirm_UnknownIdentityNoAlarmsIsNoop(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})
	f.m.Confirm(schedule.Key{ID: "no-such", Date: "2000-01-01", Time: "00:00"})
	if got := len(f.hist.Merged()); got != 0 {
		t.Fatalf("expected no history, got %d entries", got)
	}
}

func TestSnooze_CountsAsMissedNowAndRetries(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})
	entry, _ := f.sched.Find(entryKey("r1"))
	f.m.Activate(entry)

	f.m.Snooze(entryKey("r1"))

	notes := histNotes(f.hist)
	if len(notes) != 1 || notes[0] != "MISSED|Snoozed to retry (user snooze)" {
		t.Fatalf("expected immediate snooze record, got %v", notes)
	}
	open := f.m.Open()
	if len(open) != 1 || open[0].Attempt != 2 {
		t.Fatalf("expected attempt bump to 2, got %+v", open)
	}

	f.clock.Advance(DefaultRetryDelay)
	if len(f.sink.activated) != 2 || f.sink.activated[1] != 2 {
		t.Fatalf("expected re-ring at attempt 2, got %v", f.sink.activated)
	}
}

func TestSnooze_WithoutOpenAlarmJumpsToRetryPhase(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})

	f.m.Snooze(entryKey("r1"))

	open := f.m.Open()
	if len(open) != 1 || open[0].Attempt != 2 {
		t.Fatalf("expected direct attempt-2 state, got %+v", open)
	}

	// Tras el reintento y otro timeout, termina sin más timers.
	f.clock.Advance(DefaultRetryDelay)
	f.clock.Advance(DefaultResponseTimeout)
	if len(f.m.Open()) != 0 {
		t.Fatal("expected terminal state after snoozed retry times out")
	}
	if f.clock.pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", f.clock.pending())
	}
}

func TestCountdown_IsObservationalOnly(t *testing.T) {
	f := newFixture(t, [][]string{seedRow("r1")})
	entry, _ := f.sched.Find(entryKey("r1"))
	f.m.Activate(entry)

	f.clock.Advance(30 * time.Second)

	open := f.m.Open()
	if len(open) != 1 {
		t.Fatalf("alarm must remain open, got %+v", open)
	}
	want := int(DefaultResponseTimeout/time.Second) - 30
	if open[0].Remaining != want {
		t.Fatalf("remaining = %d, want %d", open[0].Remaining, want)
	}
	// El countdown no transiciona nada: el historial sigue vacío.
	if len(f.hist.Merged()) != 0 {
		t.Fatal("countdown ticks must not write history")
	}
}
