package alarm

import "time"

// Timer es un handle cancelable. Stop es cooperativo: un timer parado
// simplemente no dispara; no hay preempción de un callback en vuelo.
type Timer interface {
	Stop() bool
}

// Clock abstrae el tiempo para que las transiciones sean testeables sin
// timers reales.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock usa los timers del runtime.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
