// Package session arma y orquesta el ciclo de vida del recordatorio:
// carga el estado local, refresca las fuentes remotas y arranca el
// ticker de alarmas. Es el único paquete que conoce a todos los demás.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meditrack/internal/domain/alarm"
	"meditrack/internal/domain/history"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
	"meditrack/internal/ports/remote"
	"meditrack/internal/worker"
)

type Options struct {
	ScheduleRepo schedule.Repository
	HistoryRepo  history.Repository
	Source       remote.RowSource // nil => modo local-only
	ScheduleRng  string
	HistoryRng   string
	HistoryCap   int
	Sink         notify.Sink
	Log          logger.Logger

	ResponseTimeout time.Duration
	RetryDelay      time.Duration
}

// Session posee los services del dominio, la máquina de alarmas y el
// ticker; vive tanto como el proceso.
type Session struct {
	Schedule *schedule.Service
	History  *history.Service
	Alarms   *alarm.Machine
	ticker   *worker.Ticker
	sink     notify.Sink
	log      logger.Logger
}

func New(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = logger.Nop{}
	}
	sink := opts.Sink
	if sink == nil {
		sink = notify.Nop{}
	}

	sched := schedule.NewService(opts.ScheduleRepo, opts.Source, opts.ScheduleRng, log)
	hist := history.NewService(opts.HistoryRepo, opts.Source, opts.HistoryRng, opts.HistoryCap, log)

	alarms := alarm.New(alarm.Options{
		Schedule:        sched,
		History:         hist,
		Sink:            sink,
		Log:             log,
		ResponseTimeout: opts.ResponseTimeout,
		RetryDelay:      opts.RetryDelay,
	})

	return &Session{
		Schedule: sched,
		History:  hist,
		Alarms:   alarms,
		ticker:   worker.New(sched, alarms, log),
		sink:     sink,
		log:      log,
	}
}

// Start carga el estado local de inmediato, dispara el refresh remoto
// en background y arranca el ticker. El arranque nunca se bloquea
// esperando la red: los datos locales alcanzan para operar.
func (s *Session) Start(ctx context.Context) {
	s.Schedule.LoadLocal(ctx)
	s.History.LoadLocal(ctx)

	go s.Refresh(ctx)
	go s.ticker.Start(ctx)
}

// Refresh sincroniza schedule e history contra la fuente remota. Una
// falla se reporta por el sink y deja el core en modo local-only; no
// hay reintentos automáticos.
func (s *Session) Refresh(ctx context.Context) {
	schedErr := s.Schedule.Refresh(ctx)
	histErr := s.History.Refresh(ctx)

	switch {
	case errors.Is(schedErr, remote.ErrNotConfigured):
		s.sink.Message("Remote sync not configured; using local data only.")
		return
	case schedErr != nil:
		s.sink.Message(fmt.Sprintf("Schedule sync failed: %v. Showing local data only.", schedErr))
	default:
		s.sink.ScheduleChanged()
	}

	switch {
	case histErr == nil:
		s.sink.HistoryChanged()
	case !errors.Is(histErr, remote.ErrNotConfigured):
		s.sink.Message(fmt.Sprintf("History sync failed: %v. Showing local data only.", histErr))
	}
}
