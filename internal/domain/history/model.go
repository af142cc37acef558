package history

import "time"

// Status de un registro de toma. Cualquier otro valor cae en el bucket
// UNKNOWN de las estadísticas.
const (
	StatusTaken  = "TAKEN"
	StatusMissed = "MISSED"
)

// Entry es un registro de auditoría de una toma. Inmutable una vez
// creado; el ledger es append-only, solo el cap de tamaño descarta.
type Entry struct {
	Timestamp time.Time
	Medicine  string
	Dose      string
	Status    string
	Note      string // causa: confirmación, auto-timeout, snooze
}
