package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/remote"
)

const DefaultLocalCap = 500

// Service mantiene el ledger: remoto ∪ local. El lado local es el único
// que este proceso escribe; se inserta por la cabeza y se trunca a los
// cap registros más recientes (el más viejo sale primero). La vista
// mergeada no tiene cap.
type Service struct {
	mu sync.Mutex
	// persistMu serializa los Save del ledger: dos Append concurrentes no
	// deben poder escribir sus snapshots fuera de orden.
	persistMu sync.Mutex

	repo   Repository
	source remote.RowSource // nil => local-only
	rng    string
	log    logger.Logger
	cap    int
	now    func() time.Time

	remote []Entry
	local  []Entry
}

func NewService(repo Repository, source remote.RowSource, rng string, cap int, log logger.Logger) *Service {
	if cap <= 0 {
		cap = DefaultLocalCap
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		repo:   repo,
		source: source,
		rng:    rng,
		log:    log,
		cap:    cap,
		now:    time.Now,
	}
}

// LoadLocal carga el ledger persistido. Falla => ledger vacío.
func (s *Service) LoadLocal(ctx context.Context) {
	entries, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn("history: local load failed, starting empty", map[string]any{"error": err.Error()})
		entries = nil
	}
	if len(entries) > s.cap {
		entries = entries[:s.cap]
	}
	s.mu.Lock()
	s.local = entries
	s.mu.Unlock()
}

// Refresh trae las filas remotas del ledger. Una falla deja la vista en
// local-only; el caller la reporta como mensaje no fatal.
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

// MapRows mapea filas remotas por posición de columna
// (timestamp, medicine, dose, status, note).
func MapRows(rows [][]string) []Entry {
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		cell := func(i int) string {
			if i < len(r) {
				return strings.TrimSpace(r[i])
			}
			return ""
		}
		out = append(out, Entry{
			Timestamp: parseTimestamp(cell(0)),
			Medicine:  cell(1),
			Dose:      cell(2),
			Status:    strings.ToUpper(cell(3)),
			Note:      cell(4),
		})
	}
	return out
}

// Timestamps remotos: RFC3339 o "2006-01-02 15:04:05"; lo demás queda en
// cero y ordena al final.
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", raw, time.Local); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", raw, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

// Append inserta un registro por la cabeza del ledger local, trunca al
// cap y persiste. El registro queda reflejado de inmediato en la vista
// mergeada. Devuelve el entry creado.
func (s *Service) Append(ctx context.Context, medicine, dose, status, note string) Entry {
	e := Entry{
		Timestamp: s.now(),
		Medicine:  medicine,
		Dose:      dose,
		Status:    status,
		Note:      note,
	}

	s.mu.Lock()
	s.local = append([]Entry{e}, s.local...)
	if len(s.local) > s.cap {
		s.local = s.local[:s.cap]
	}
	s.mu.Unlock()

	s.persistLocal(ctx)
	return e
}

func (s *Service) persistLocal(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	snapshot := append([]Entry{}, s.local...)
	s.mu.Unlock()

	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.log.Warn("history: local save failed", map[string]any{"error": err.Error()})
	}
}

// Merged devuelve remoto ++ local, sin cap.
func (s *Service) Merged() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.remote)+len(s.local))
	out = append(out, s.remote...)
	out = append(out, s.local...)
	return out
}

// Recent devuelve la vista mergeada ordenada del más reciente al más
// viejo, opcionalmente acotada. limit<=0 => todo.
func (s *Service) Recent(limit int) []Entry {
	out := s.Merged()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LocalLen es el tamaño actual del ledger local (acotado por cap).
func (s *Service) LocalLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.local)
}
