package schedule

import (
	"time"

	"meditrack/internal/platform/timefmt"
	"meditrack/internal/ports/notify"
)

// Status del entry en el plan. Vacío = pendiente.
type Status string

const (
	StatusPending Status = ""
	StatusTaken   Status = "TAKEN"
	StatusMissed  Status = "MISSED"
)

// Key es la identidad compuesta (id, fecha, hora) de un entry. Las filas
// remotas pueden compartir u omitir id, así que el id solo no identifica.
// Se usa como key de mapa por igualdad de valor, sin concatenar strings.
type Key struct {
	ID   string
	Date string
	Time string
}

// Entry es una toma planificada. Time siempre canónico "HH:MM": el texto
// crudo se normaliza al ingerir, nunca aguas abajo.
type Entry struct {
	ID       string
	Medicine string
	Dose     string
	Date     string // "2006-01-02"
	Time     string // "15:04" canónico
	Notes    string
	Status   Status
	Local    bool // agregado por el usuario (solo estos se persisten)
}

func (e Entry) Key() Key {
	return Key{ID: e.ID, Date: e.Date, Time: e.Time}
}

// At devuelve el instante de la toma. ok=false si fecha/hora no parsean;
// el caller filtra el entry, no lo compara.
func (e Entry) At() (time.Time, bool) {
	return timefmt.CombineDateTime(e.Date, e.Time)
}

// Intake proyecta el entry hacia los sinks de notificación.
func (e Entry) Intake() notify.Intake {
	return notify.Intake{
		ID:       e.ID,
		Medicine: e.Medicine,
		Dose:     e.Dose,
		Date:     e.Date,
		Time:     e.Time,
		Notes:    e.Notes,
	}
}
