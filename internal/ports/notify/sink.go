package notify

// Intake es la vista mínima de una toma programada que reciben los
// colaboradores de presentación/notificación. Deliberadamente sin tipos
// del dominio: el sink no asume nada sobre cómo se renderiza.
type Intake struct {
	ID       string
	Medicine string
	Dose     string
	Date     string
	Time     string
	Notes    string
}

type Outcome string

const (
	OutcomeTaken   Outcome = "taken"
	OutcomeMissed  Outcome = "missed"
	OutcomeSnoozed Outcome = "snoozed"
)

// Sink recibe las notificaciones del core. Las implementaciones no deben
// bloquear: las transiciones de alarma se emiten con el dispatch tomado.
type Sink interface {
	ScheduleChanged()
	HistoryChanged()
	AlarmActivated(item Intake, attempt, secondsRemaining int)
	AlarmCountdown(item Intake, secondsRemaining int)
	AlarmResolved(item Intake, outcome Outcome)
	Message(text string)
}

// Fanout reparte cada notificación a todos los sinks.
type Fanout []Sink

func (f Fanout) ScheduleChanged() {
	for _, s := range f {
		s.ScheduleChanged()
	}
}

func (f Fanout) HistoryChanged() {
	for _, s := range f {
		s.HistoryChanged()
	}
}

func (f Fanout) AlarmActivated(item Intake, attempt, secondsRemaining int) {
	for _, s := range f {
		s.AlarmActivated(item, attempt, secondsRemaining)
	}
}

func (f Fanout) AlarmCountdown(item Intake, secondsRemaining int) {
	for _, s := range f {
		s.AlarmCountdown(item, secondsRemaining)
	}
}

func (f Fanout) AlarmResolved(item Intake, outcome Outcome) {
	for _, s := range f {
		s.AlarmResolved(item, outcome)
	}
}

func (f Fanout) Message(text string) {
	for _, s := range f {
		s.Message(text)
	}
}

// Nop ignora todo. Para tests y modo headless.
type Nop struct{}

func (Nop) ScheduleChanged()                {}
func (Nop) HistoryChanged()                 {}
func (Nop) AlarmActivated(Intake, int, int) {}
func (Nop) AlarmCountdown(Intake, int)      {}
func (Nop) AlarmResolved(Intake, Outcome)   {}
func (Nop) Message(string)                  {}
