package alarm

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/timefmt"
)

func RegisterRoutes(r chi.Router, m *Machine, sched *schedule.Service) {
	r.Post("/intake/confirm", confirmHandler(m))
	r.Post("/intake/snooze", snoozeHandler(m))
	r.Route("/alarms", func(ar chi.Router) {
		ar.Get("/", listAlarmsHandler(m))
		ar.Post("/test", testAlarmHandler(m, sched))
	})
}

// identityRequest es la tripleta de identidad de un entry.
type identityRequest struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Time string `json:"time"`
}

// alarmResponse representa una alarma abierta.
type alarmResponse struct {
	ID        string `json:"id"`
	Medicine  string `json:"medicine"`
	Dose      string `json:"dose"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Attempt   int    `json:"attempt"`
	Remaining int    `json:"remaining_seconds"`
	Countdown string `json:"countdown"` // "MM:SS"
}

// confirmHandler godoc
// @Summary Confirmar una toma
// @Description Resuelve la alarma de la identidad indicada como TAKEN y cancela sus timers. Sin alarma abierta igualmente registra historial y marca el entry.
// @Tags intake
// @Accept json
// @Param payload body identityRequest true "Identidad (id, date, time)"
// @Success 204 {string} string ""
// @Failure 400 {string} string "invalid json"
// @Router /intake/confirm [post]
func confirmHandler(m *Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := decodeIdentity(w, r)
		if !ok {
			return
		}
		m.Confirm(key)
		w.WriteHeader(http.StatusNoContent)
	}
}

// snoozeHandler godoc
// @Summary Posponer una toma
// @Description Registra la toma como MISSED ahora y reprograma un reintento. Sin alarma abierta arranca directo en el intento 2.
// @Tags intake
// @Accept json
// @Param payload body identityRequest true "Identidad (id, date, time)"
// @Success 204 {string} string ""
// @Failure 400 {string} string "invalid json"
// @Router /intake/snooze [post]
func snoozeHandler(m *Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := decodeIdentity(w, r)
		if !ok {
			return
		}
		m.Snooze(key)
		w.WriteHeader(http.StatusNoContent)
	}
}

// listAlarmsHandler godoc
// @Summary Listar alarmas abiertas
// @Tags alarms
// @Produce json
// @Success 200 {array} alarmResponse
// @Router /alarms [get]
func listAlarmsHandler(m *Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views := m.Open()
		out := make([]alarmResponse, 0, len(views))
		for _, v := range views {
			out = append(out, alarmResponse{
				ID:        v.Key.ID,
				Medicine:  v.Item.Medicine,
				Dose:      v.Item.Dose,
				Date:      v.Key.Date,
				Time:      v.Key.Time,
				Attempt:   v.Attempt,
				Remaining: v.Remaining,
				Countdown: timefmt.FormatSeconds(v.Remaining),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// testAlarmHandler godoc
// @Summary Disparar una alarma de prueba
// @Description Clona la próxima toma pendiente (o sintetiza una) con fecha/hora actuales y la activa.
// @Tags alarms
// @Produce json
// @Success 201 {object} alarmResponse
// @Router /alarms/test [post]
func testAlarmHandler(m *Machine, sched *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()

		var item schedule.Entry
		found := false
		for _, e := range sched.Upcoming(0) {
			if e.Status != schedule.StatusTaken {
				item = e
				found = true
				break
			}
		}
		if !found {
			item = schedule.Entry{
				Medicine: "TEST MED",
				Dose:     "1 tab",
				Notes:    "Manual test",
			}
		}

		item.Date = timefmt.FormatDate(now)
		item.Time = timefmt.FormatClock(now)
		if item.ID == "" {
			item.ID = "test-" + uuid.NewString()
		}

		m.Activate(item)
		writeJSON(w, http.StatusCreated, alarmResponse{
			ID:       item.ID,
			Medicine: item.Medicine,
			Dose:     item.Dose,
			Date:     item.Date,
			Time:     item.Time,
			Attempt:  1,
		})
	}
}

func decodeIdentity(w http.ResponseWriter, r *http.Request) (schedule.Key, bool) {
	var req identityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return schedule.Key{}, false
	}
	return schedule.Key{ID: req.ID, Date: req.Date, Time: req.Time}, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
