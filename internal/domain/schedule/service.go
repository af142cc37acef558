package schedule

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"meditrack/internal/platform/logger"
	"meditrack/internal/platform/timefmt"
	"meditrack/internal/ports/remote"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Service mantiene la vista mergeada del plan: filas remotas normalizadas
// seguidas de los entries locales. Los locales no se deduplican contra los
// remotos: una entrada manual con el mismo medicine/fecha/hora aparece dos
// veces (override manual explícito; decisión de producto pendiente).
type Service struct {
	mu sync.Mutex
	// persistMu serializa los Save: sin esto, dos mutaciones concurrentes
	// pueden escribir sus snapshots fuera de orden y dejar persistido el
	// más viejo.
	persistMu sync.Mutex

	repo   Repository
	source remote.RowSource // nil => modo local-only
	rng    string
	log    logger.Logger
	now    func() time.Time

	remote []Entry
	local  []Entry
}

func NewService(repo Repository, source remote.RowSource, rng string, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		repo:   repo,
		source: source,
		rng:    rng,
		log:    log,
		now:    time.Now,
	}
}

// LoadLocal carga la colección local persistida. Falla => colección vacía.
func (s *Service) LoadLocal(ctx context.Context) {
	entries, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn("schedule: local load failed, starting empty", map[string]any{"error": err.Error()})
		entries = nil
	}
	s.mu.Lock()
	s.local = entries
	s.mu.Unlock()
}

// Refresh trae las filas remotas y reemplaza el lado remoto del merge.
// Una falla deja la vista en local-only y se devuelve para que el caller
// la reporte como mensaje no fatal; las alarmas siguen corriendo.
func (s *Service) Refresh(ctx context.Context) error {
	if s.source == nil {
		return remote.ErrNotConfigured
	}

	rows, err := s.source.Fetch(ctx, s.rng)
	if err != nil {
		s.mu.Lock()
		s.remote = nil
		s.mu.Unlock()
		return err
	}

	entries := MapRows(rows)
	s.mu.Lock()
	s.remote = entries
	s.mu.Unlock()
	return nil
}

// MapRows mapea filas rectangulares a entries por posición de columna
// (id, medicine, dose, date, time, notes, status) y canoniza la hora.
// Celdas faltantes quedan vacías.
func MapRows(rows [][]string) []Entry {
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		cell := func(i int) string {
			if i < len(r) {
				return strings.TrimSpace(r[i])
			}
			return ""
		}
		e := Entry{
			ID:       cell(0),
			Medicine: cell(1),
			Dose:     cell(2),
			Date:     cell(3),
			Time:     timefmt.NormalizeTime(cell(4)),
			Notes:    cell(5),
			Status:   Status(strings.ToUpper(cell(6))),
		}
		out = append(out, e)
	}
	return out
}

// Merged devuelve remoto ++ local (los locales al final, sin dedup).
func (s *Service) Merged() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.remote)+len(s.local))
	out = append(out, s.remote...)
	out = append(out, s.local...)
	return out
}

// Find busca por identidad compuesta sobre la vista mergeada.
func (s *Service) Find(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.remote {
		if e.Key() == key {
			return e, true
		}
	}
	for _, e := range s.local {
		if e.Key() == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Upcoming filtra la vista mergeada a tomas con instante válido dentro
// del último minuto o futuras, ordenadas por instante. limit<=0 => 50.
func (s *Service) Upcoming(limit int) []Entry {
	if limit <= 0 {
		limit = 50
	}
	cutoff := s.now().Add(-time.Minute)

	type timed struct {
		e  Entry
		at time.Time
	}

	all := s.Merged()
	upcoming := make([]timed, 0, len(all))
	for _, e := range all {
		at, ok := e.At()
		if !ok || at.Before(cutoff) {
			continue
		}
		upcoming = append(upcoming, timed{e: e, at: at})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].at.Before(upcoming[j].at)
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	out := make([]Entry, 0, len(upcoming))
	for _, t := range upcoming {
		out = append(out, t.e)
	}
	return out
}

// AddInput es el patrón de recurrencia de una alta manual.
type AddInput struct {
	Medicine      string
	Dose          string
	Date          string // "2006-01-02"
	Time          string // texto libre, se normaliza
	IntervalHours int
	Days          int
	Notes         string
}

// Add expande el patrón en entries concretos y los antepone a la colección
// local. interval<=0 => exactamente un entry; si no, un entry cada
// interval horas dentro de la ventana de days*24h desde el inicio
// (fin exclusivo).
func (s *Service) Add(ctx context.Context, in AddInput) ([]Entry, error) {
	if strings.TrimSpace(in.Medicine) == "" ||
		strings.TrimSpace(in.Date) == "" ||
		strings.TrimSpace(in.Time) == "" {
		return nil, ErrInvalidInput
	}

	clock := timefmt.NormalizeTime(in.Time)
	start, ok := timefmt.CombineDateTime(in.Date, clock)
	if !ok {
		return nil, ErrInvalidInput
	}

	mk := func(date, clock string) Entry {
		return Entry{
			ID:       "local-" + uuid.NewString(),
			Medicine: strings.TrimSpace(in.Medicine),
			Dose:     strings.TrimSpace(in.Dose),
			Date:     date,
			Time:     clock,
			Notes:    strings.TrimSpace(in.Notes),
			Status:   StatusPending,
			Local:    true,
		}
	}

	var entries []Entry
	if in.IntervalHours <= 0 {
		entries = append(entries, mk(in.Date, clock))
	} else {
		days := in.Days
		if days < 1 {
			days = 1
		}
		end := start.Add(time.Duration(days) * 24 * time.Hour)
		step := time.Duration(in.IntervalHours) * time.Hour
		for cur := start; cur.Before(end); cur = cur.Add(step) {
			entries = append(entries, mk(timefmt.FormatDate(cur), timefmt.FormatClock(cur)))
		}
	}

	s.mu.Lock()
	s.local = append(append([]Entry{}, entries...), s.local...)
	s.mu.Unlock()

	s.persistLocal(ctx)
	return entries, nil
}

// ClearLocal descarta todos los entries agregados por el usuario.
func (s *Service) ClearLocal(ctx context.Context) {
	s.mu.Lock()
	s.local = nil
	s.mu.Unlock()
	s.persistLocal(ctx)
}

// SetStatus marca el entry en ambos lados del merge (la copia local es la
// única durable) y persiste. Devuelve el entry actualizado si existe.
func (s *Service) SetStatus(ctx context.Context, key Key, status Status) (Entry, bool) {
	s.mu.Lock()
	var found Entry
	ok := false
	for i := range s.remote {
		if s.remote[i].Key() == key {
			s.remote[i].Status = status
			found, ok = s.remote[i], true
			break
		}
	}
	for i := range s.local {
		if s.local[i].Key() == key {
			s.local[i].Status = status
			if !ok {
				found, ok = s.local[i], true
			}
			break
		}
	}
	s.mu.Unlock()

	s.persistLocal(ctx)
	return found, ok
}

func (s *Service) persistLocal(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	snapshot := append([]Entry{}, s.local...)
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.log.Warn("schedule: local save failed", map[string]any{"error": err.Error()})
	}
}
