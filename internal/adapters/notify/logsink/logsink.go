// Package logsink es el sink de notificaciones por defecto: escribe
// cada evento del core al logger estructurado.
package logsink

import (
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
)

type Sink struct {
	log logger.Logger
}

func New(log logger.Logger) *Sink {
	if log == nil {
		log = logger.Nop{}
	}
	return &Sink{log: log.With(map[string]any{"component": "notify"})}
}

func (s *Sink) ScheduleChanged() {
	s.log.Debug("schedule changed", nil)
}

func (s *Sink) HistoryChanged() {
	s.log.Debug("history changed", nil)
}

func (s *Sink) AlarmActivated(item notify.Intake, attempt, secondsRemaining int) {
	s.log.Info("alarm activated", map[string]any{
		"medicine": item.Medicine,
		"dose":     item.Dose,
		"time":     item.Time,
		"attempt":  attempt,
		"timeout":  secondsRemaining,
	})
}

// AlarmCountdown se emite cada segundo; solo interesa en debug.
func (s *Sink) AlarmCountdown(item notify.Intake, secondsRemaining int) {
	s.log.Debug("alarm countdown", map[string]any{
		"medicine":  item.Medicine,
		"remaining": secondsRemaining,
	})
}

func (s *Sink) AlarmResolved(item notify.Intake, outcome notify.Outcome) {
	s.log.Info("alarm resolved", map[string]any{
		"medicine": item.Medicine,
		"outcome":  string(outcome),
	})
}

func (s *Sink) Message(text string) {
	s.log.Info(text, nil)
}
