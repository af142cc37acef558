package remote

import (
	"context"
	"errors"
)

// ErrNotConfigured indica que la fuente remota no tiene credenciales;
// el core sigue en modo local-only sin tratarlo como falla de red.
var ErrNotConfigured = errors.New("remote source not configured")

// RowSource es la fuente remota de filas tabulares (schedule/history).
// Una falla se reporta una vez y se degrada a datos locales: el core
// no reintenta.
type RowSource interface {
	Fetch(ctx context.Context, rng string) ([][]string, error)
}
