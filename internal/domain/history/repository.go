package history

import "context"

// Repository persiste el ledger local completo, ya ordenado con el más
// reciente primero y acotado por el service. Best-effort: un Load fallido
// rinde ledger vacío.
type Repository interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}
