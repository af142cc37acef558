package schedule

import "context"

// Repository persiste la colección local completa (best-effort, espejo
// del saveSchedule/loadSchedule del colaborador de persistencia). Un Load
// fallido rinde colección vacía en el service, nunca corta el arranque.
type Repository interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}
