package worker

import (
	"context"
	"time"

	"meditrack/internal/domain/alarm"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/logger"
	"meditrack/internal/platform/timefmt"
)

// Ticker es el detector de tomas vencidas. Dos fases: Idle esperando el
// borde del próximo minuto y un muestreo one-shot que compara el plan
// mergeado contra el reloj de pared. Solo matchea el minuto actual: una
// toma vencida mientras el proceso no corría no se alarma retroactiva.
type Ticker struct {
	sched  *schedule.Service
	alarms *alarm.Machine
	log    logger.Logger
	now    func() time.Time
}

func New(sched *schedule.Service, alarms *alarm.Machine, log logger.Logger) *Ticker {
	if log == nil {
		log = logger.Nop{}
	}
	return &Ticker{
		sched:  sched,
		alarms: alarms,
		log:    log,
		now:    time.Now,
	}
}

// Start corre hasta que el contexto se cancele. Un muestreo inmediato
// cubre el caso de arrancar a mitad de minuto con algo ya vencido;
// después se alinea al borde de minuto y sigue con período fijo de 60s.
func (t *Ticker) Start(ctx context.Context) {
	t.log.Info("ticker started", nil)

	t.CheckNow()

	now := t.now()
	toBoundary := now.Truncate(time.Minute).Add(time.Minute).Sub(now)
	if toBoundary <= 0 {
		toBoundary = time.Minute
	}

	boundary := time.NewTimer(toBoundary)
	defer boundary.Stop()

	select {
	case <-ctx.Done():
		t.log.Info("ticker stopped", nil)
		return
	case <-boundary.C:
		t.CheckNow()
	}

	tick := time.NewTicker(time.Minute)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("ticker stopped", nil)
			return
		case <-tick.C:
			t.CheckNow()
		}
	}
}

// CheckNow es un muestreo: pide activación para todo entry no tomado
// cuyo (fecha, hora) es el minuto actual. La máquina deduplica por
// identidad, así que activar de más es inocuo.
func (t *Ticker) CheckNow() {
	now := t.now()
	curDate := timefmt.FormatDate(now)
	curTime := timefmt.FormatClock(now)

	for _, e := range t.sched.Merged() {
		if e.Status == schedule.StatusTaken {
			continue
		}
		if e.Date == "" || e.Time == "" {
			continue
		}
		if e.Date == curDate && e.Time == curTime {
			t.alarms.Activate(e)
		}
	}
}
