// Package pushover empuja los eventos de alarma al teléfono vía la API
// de mensajes de Pushover. Los envíos son asíncronos: el sink nunca
// bloquea el dispatch de la alarma.
package pushover

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
)

const apiURL = "https://api.pushover.net/1/messages.json"

type Sink struct {
	token  string
	user   string
	apiURL string
	http   *http.Client
	log    logger.Logger
}

// New crea el sink. Retorna nil si faltan credenciales, igual que el
// remoto de sheets: el llamador simplemente no lo agrega al fanout.
func New(token, user string, log logger.Logger) *Sink {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(user) == "" {
		return nil
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Sink{
		token:  token,
		user:   user,
		apiURL: apiURL,
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    log.With(map[string]any{"component": "pushover"}),
	}
}

func (s *Sink) ScheduleChanged() {}
func (s *Sink) HistoryChanged()  {}

// AlarmCountdown es ruido por segundo; nunca se empuja al teléfono.
func (s *Sink) AlarmCountdown(notify.Intake, int) {}

func (s *Sink) AlarmActivated(item notify.Intake, attempt, secondsRemaining int) {
	title := fmt.Sprintf("Medication due: %s", item.Medicine)
	msg := fmt.Sprintf("%s %s at %s (attempt %d, respond within %ds)",
		item.Medicine, item.Dose, item.Time, attempt, secondsRemaining)
	s.sendAsync(title, msg)
}

func (s *Sink) AlarmResolved(item notify.Intake, outcome notify.Outcome) {
	// Solo el desenlace final interesa en el teléfono; taken/snoozed
	// los disparó el propio usuario.
	if outcome != notify.OutcomeMissed {
		return
	}
	s.sendAsync(
		fmt.Sprintf("Missed dose: %s", item.Medicine),
		fmt.Sprintf("%s %s scheduled %s %s was not confirmed", item.Medicine, item.Dose, item.Date, item.Time),
	)
}

func (s *Sink) Message(text string) {
	s.sendAsync("MediTrack", text)
}

func (s *Sink) sendAsync(title, message string) {
	go func() {
		if err := s.send(title, message); err != nil {
			s.log.Warn("push failed", map[string]any{"error": err.Error()})
		}
	}()
}

func (s *Sink) send(title, message string) error {
	params := url.Values{}
	params.Set("token", s.token)
	params.Set("user", s.user)
	params.Set("title", title)
	params.Set("message", message)

	resp, err := s.http.PostForm(s.apiURL, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("pushover api error: status %s, body %s", resp.Status, string(body))
	}
	return nil
}
