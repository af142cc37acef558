package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"meditrack/internal/ports/notify"
)

func RegisterRoutes(r chi.Router, svc *Service, sink notify.Sink) {
	r.Route("/schedule", func(sr chi.Router) {
		sr.Get("/", listScheduleHandler(svc))
		sr.Post("/", addScheduleHandler(svc, sink))
		sr.Delete("/local", clearLocalHandler(svc, sink))
	})
}

// entryResponse representa una toma planificada en la API.
type entryResponse struct {
	ID       string `json:"id"`
	Medicine string `json:"medicine"`
	Dose     string `json:"dose"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Notes    string `json:"notes"`
	Status   string `json:"status"`
	Local    bool   `json:"local"`
}

// addScheduleRequest es el patrón de recurrencia de una alta manual.
type addScheduleRequest struct {
	Medicine      string `json:"medicine"`
	Dose          string `json:"dose"`
	Date          string `json:"date"` // "2006-01-02"
	Time          string `json:"time"` // texto libre; se normaliza a HH:MM
	IntervalHours int    `json:"interval_hours"`
	Days          int    `json:"days"`
	Notes         string `json:"notes"`
}

// listScheduleHandler godoc
// @Summary Listar el plan de tomas
// @Description Vista mergeada (remoto + local). Con upcoming=1 filtra a tomas vigentes/futuras ordenadas por instante.
// @Tags schedule
// @Produce json
// @Param upcoming query int false "1 => solo próximas"
// @Param limit query int false "Máximo de filas en modo upcoming (default 50)"
// @Success 200 {array} entryResponse
// @Router /schedule [get]
func listScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entries []Entry
		if r.URL.Query().Get("upcoming") == "1" {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			entries = svc.Upcoming(limit)
		} else {
			entries = svc.Merged()
		}

		out := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// addScheduleHandler godoc
// @Summary Agregar tomas al plan local
// @Description Expande el patrón de recurrencia (inicio, interval_hours, days) en entries concretos. interval_hours<=0 crea exactamente uno.
// @Tags schedule
// @Accept json
// @Produce json
// @Param payload body addScheduleRequest true "Patrón de recurrencia"
// @Success 201 {array} entryResponse
// @Failure 400 {string} string "invalid json / campos requeridos"
// @Router /schedule [post]
func addScheduleHandler(svc *Service, sink notify.Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		entries, err := svc.Add(r.Context(), AddInput{
			Medicine:      req.Medicine,
			Dose:          req.Dose,
			Date:          req.Date,
			Time:          req.Time,
			IntervalHours: req.IntervalHours,
			Days:          req.Days,
			Notes:         req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "medicine, date and time are required", http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		sink.ScheduleChanged()
		sink.Message(fmt.Sprintf("Added %d scheduled item(s) for %s.", len(entries), entries[0].Medicine))

		out := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// clearLocalHandler godoc
// @Summary Borrar los entries locales
// @Description Descarta todas las tomas agregadas manualmente. Las filas remotas no se tocan.
// @Tags schedule
// @Success 204 {string} string ""
// @Router /schedule/local [delete]
func clearLocalHandler(svc *Service, sink notify.Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearLocal(r.Context())
		sink.ScheduleChanged()
		sink.Message("Local schedule cleared.")
		w.WriteHeader(http.StatusNoContent)
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:       e.ID,
		Medicine: e.Medicine,
		Dose:     e.Dose,
		Date:     e.Date,
		Time:     e.Time,
		Notes:    e.Notes,
		Status:   string(e.Status),
		Local:    e.Local,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
