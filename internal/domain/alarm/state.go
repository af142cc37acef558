package alarm

import "meditrack/internal/domain/schedule"

const (
	// MaxAttempts: un ciclo inicial más un único reintento.
	MaxAttempts = 2
)

// state es el estado transitorio de una alarma abierta. Vive desde la
// primera activación hasta la confirmación o el MISSED final del intento
// 2. Como máximo existe uno por identidad: el mapa keyed por la tripleta
// es el mecanismo de dedup.
type state struct {
	key     schedule.Key
	item    schedule.Entry // snapshot al activar
	attempt int
	seq     uint64 // orden de creación, para el fallback "más reciente"

	remaining int // segundos para display; el timeout manda, no esto

	// Handles activos. Toda transición que los supersede los para antes
	// de seguir: un timer viejo no debe reentrar una máquina que ya
	// avanzó de intento o terminó.
	countdown Timer
	timeout   Timer
	retry     Timer
}

func (st *state) stopCountdown() {
	if st.countdown != nil {
		st.countdown.Stop()
		st.countdown = nil
	}
	if st.timeout != nil {
		st.timeout.Stop()
		st.timeout = nil
	}
}

func (st *state) stopAll() {
	st.stopCountdown()
	if st.retry != nil {
		st.retry.Stop()
		st.retry = nil
	}
}

// View es la proyección de una alarma abierta hacia la API.
type View struct {
	Key       schedule.Key
	Item      schedule.Entry
	Attempt   int
	Remaining int
}
