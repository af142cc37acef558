package alarm

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"meditrack/internal/domain/history"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
)

const (
	DefaultResponseTimeout = 180 * time.Second
	DefaultRetryDelay      = 300 * time.Second
)

// Machine es la máquina de estados de alarmas. Cada transición
// (activación, timeout, reintento, confirmación, snooze, tick) entra
// como un evento por un único dispatch serializado: dos transiciones de
// la misma alarma nunca se solapan. Los timers son handles del Clock y
// se cancelan explícitamente en toda transición que los supersede.
type Machine struct {
	mu sync.Mutex

	sched *schedule.Service
	hist  *history.Service
	sink  notify.Sink
	clock Clock
	log   logger.Logger

	responseTimeout time.Duration
	retryDelay      time.Duration

	active map[schedule.Key]*state
	seq    uint64
}

type Options struct {
	Schedule *schedule.Service
	History  *history.Service
	Sink     notify.Sink
	Clock    Clock
	Log      logger.Logger

	ResponseTimeout time.Duration // default 180s
	RetryDelay      time.Duration // default 300s
}

func New(opts Options) *Machine {
	if opts.Sink == nil {
		opts.Sink = notify.Nop{}
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Log == nil {
		opts.Log = logger.Nop{}
	}
	if opts.ResponseTimeout <= 0 {
		opts.ResponseTimeout = DefaultResponseTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Machine{
		sched:           opts.Schedule,
		hist:            opts.History,
		sink:            opts.Sink,
		clock:           opts.Clock,
		log:             opts.Log,
		responseTimeout: opts.ResponseTimeout,
		retryDelay:      opts.RetryDelay,
		active:          make(map[schedule.Key]*state),
	}
}

type eventKind int

const (
	evActivate eventKind = iota
	evTick
	evTimeout
	evRetry
	evConfirm
	evSnooze
)

type event struct {
	kind eventKind
	key  schedule.Key
	item schedule.Entry // solo evActivate
	// attempt vigente cuando se armó el timer; un tick/timeout viejo que
	// sobrevivió a un Stop no reentra un intento que ya avanzó.
	attempt int
}

// Activate abre una alarma para el entry. Idempotente: entry ya TAKEN o
// alarma abierta para esa identidad => no-op silencioso.
func (m *Machine) Activate(item schedule.Entry) {
	m.dispatch(event{kind: evActivate, key: item.Key(), item: item})
}

// Confirm resuelve la alarma como tomada y cancela todo timer pendiente.
// Sin alarma abierta igualmente registra historial y marca el entry.
func (m *Machine) Confirm(key schedule.Key) {
	m.dispatch(event{kind: evConfirm, key: key})
}

// Snooze cuenta como respuesta perdida ahora y reprograma el reintento.
// Sin alarma abierta para la identidad, arranca directo en el intento 2.
func (m *Machine) Snooze(key schedule.Key) {
	m.dispatch(event{kind: evSnooze, key: key})
}

// Open lista las alarmas abiertas en orden de activación.
func (m *Machine) Open() []View {
	m.mu.Lock()
	defer m.mu.Unlock()

	states := make([]*state, 0, len(m.active))
	for _, st := range m.active {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].seq < states[j].seq })

	out := make([]View, 0, len(states))
	for _, st := range states {
		out = append(out, View{Key: st.key, Item: st.item, Attempt: st.attempt, Remaining: st.remaining})
	}
	return out
}

func (m *Machine) dispatch(ev event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.kind {
	case evActivate:
		m.handleActivate(ev.item)
	case evTick:
		m.handleTick(ev.key, ev.attempt)
	case evTimeout:
		m.handleTimeout(ev.key, ev.attempt)
	case evRetry:
		if st, ok := m.active[ev.key]; ok {
			m.ring(st)
		}
	case evConfirm:
		m.handleConfirm(ev.key)
	case evSnooze:
		m.handleSnooze(ev.key)
	}
}

func (m *Machine) handleActivate(item schedule.Entry) {
	if item.Status == schedule.StatusTaken {
		return
	}
	key := item.Key()
	if _, open := m.active[key]; open {
		// Single-flight por identidad.
		return
	}

	m.seq++
	st := &state{key: key, item: item, attempt: 1, seq: m.seq}
	m.active[key] = st
	m.log.Info("alarm activated", map[string]any{
		"medicine": item.Medicine, "date": item.Date, "time": item.Time,
	})
	m.ring(st)
}

// ring entra (o reentra) en ACTIVE: countdown de display por segundo más
// el timeout que decide la transición. Ambos arrancan juntos.
func (m *Machine) ring(st *state) {
	st.stopCountdown()
	st.retry = nil
	st.remaining = int(m.responseTimeout / time.Second)

	m.sink.AlarmActivated(st.item.Intake(), st.attempt, st.remaining)

	key, attempt := st.key, st.attempt
	st.countdown = m.clock.AfterFunc(time.Second, func() {
		m.dispatch(event{kind: evTick, key: key, attempt: attempt})
	})
	st.timeout = m.clock.AfterFunc(m.responseTimeout, func() {
		m.dispatch(event{kind: evTimeout, key: key, attempt: attempt})
	})
}

// handleTick decrementa los segundos visibles. Solo observacional:
// llegar a cero no transiciona nada, eso lo hace el timeout.
func (m *Machine) handleTick(key schedule.Key, attempt int) {
	st, ok := m.active[key]
	if !ok || st.attempt != attempt || st.countdown == nil {
		return
	}
	if st.remaining > 0 {
		st.remaining--
	}
	m.sink.AlarmCountdown(st.item.Intake(), st.remaining)
	if st.remaining > 0 {
		st.countdown = m.clock.AfterFunc(time.Second, func() {
			m.dispatch(event{kind: evTick, key: key, attempt: attempt})
		})
	}
}

func (m *Machine) handleTimeout(key schedule.Key, attempt int) {
	st, ok := m.active[key]
	if !ok || st.attempt != attempt {
		return
	}
	st.stopCountdown()

	m.hist.Append(context.Background(), st.item.Medicine, st.item.Dose,
		history.StatusMissed, fmt.Sprintf("Auto-missed (attempt %d)", st.attempt))
	m.sched.SetStatus(context.Background(), st.key, schedule.StatusMissed)
	m.sink.HistoryChanged()
	m.sink.ScheduleChanged()

	if st.attempt < MaxAttempts {
		st.attempt = MaxAttempts
		k := st.key
		st.retry = m.clock.AfterFunc(m.retryDelay, func() {
			m.dispatch(event{kind: evRetry, key: k})
		})
		m.sink.Message(fmt.Sprintf("%s was marked MISSED (attempt %d).", st.item.Medicine, attempt))
		return
	}

	// Intento 2 agotado: terminal, sin más alarmas para este entry.
	delete(m.active, st.key)
	m.sink.AlarmResolved(st.item.Intake(), notify.OutcomeMissed)
	m.sink.Message(fmt.Sprintf("%s final MISSED (no response after %d attempts).", st.item.Medicine, MaxAttempts))
}

func (m *Machine) handleConfirm(key schedule.Key) {
	st, open := m.active[key]
	if !open {
		if entry, found := m.sched.Find(key); found {
			// Confirmación directa desde la tabla, sin alarma abierta:
			// igual registra historial y marca el entry. No hay timers.
			m.hist.Append(context.Background(), entry.Medicine, entry.Dose,
				history.StatusTaken, "Confirmed (UI)")
			m.sched.SetStatus(context.Background(), key, schedule.StatusTaken)
			m.sink.HistoryChanged()
			m.sink.ScheduleChanged()
			m.sink.Message(fmt.Sprintf("%s marked TAKEN.", entry.Medicine))
			return
		}
		// Identidad desconocida: cae a la alarma abierta más reciente.
		// Elección pragmática de UX, pendiente de revisión de producto.
		if st = m.mostRecentLocked(); st == nil {
			return
		}
	}

	st.stopAll()
	m.hist.Append(context.Background(), st.item.Medicine, st.item.Dose,
		history.StatusTaken, fmt.Sprintf("Confirmed (attempt %d)", st.attempt))
	m.sched.SetStatus(context.Background(), st.key, schedule.StatusTaken)
	delete(m.active, st.key)

	m.sink.HistoryChanged()
	m.sink.ScheduleChanged()
	m.sink.AlarmResolved(st.item.Intake(), notify.OutcomeTaken)
	m.sink.Message(fmt.Sprintf("%s marked TAKEN.", st.item.Medicine))
}

func (m *Machine) handleSnooze(key schedule.Key) {
	st, open := m.active[key]
	if !open {
		if entry, found := m.sched.Find(key); found {
			// Snooze sin alarma abierta: salta directo a la fase de
			// único reintento.
			m.seq++
			st = &state{key: key, item: entry, attempt: MaxAttempts, seq: m.seq}
			m.active[key] = st
		} else if st = m.mostRecentLocked(); st == nil {
			return
		} else {
			open = true
		}
	}
	if open {
		st.stopAll()
		if st.attempt < MaxAttempts {
			st.attempt++
		}
	}

	k := st.key
	st.retry = m.clock.AfterFunc(m.retryDelay, func() {
		m.dispatch(event{kind: evRetry, key: k})
	})

	// El snooze cuenta como respuesta perdida ahora, no diferida.
	m.hist.Append(context.Background(), st.item.Medicine, st.item.Dose,
		history.StatusMissed, "Snoozed to retry (user snooze)")
	m.sched.SetStatus(context.Background(), st.key, schedule.StatusMissed)
	m.sink.HistoryChanged()
	m.sink.ScheduleChanged()
	m.sink.AlarmResolved(st.item.Intake(), notify.OutcomeSnoozed)
	m.sink.Message(fmt.Sprintf("%s snoozed for %s (attempt %d).",
		st.item.Medicine, m.retryDelay, st.attempt))
}

func (m *Machine) mostRecentLocked() *state {
	var latest *state
	for _, st := range m.active {
		if latest == nil || st.seq > latest.seq {
			latest = st
		}
	}
	return latest
}
