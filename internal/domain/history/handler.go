package history

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/history", listHistoryHandler(svc))
	r.Get("/stats", statsHandler(svc))
}

// entryResponse representa un registro del ledger en la API.
type entryResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Medicine  string    `json:"medicine"`
	Dose      string    `json:"dose"`
	Status    string    `json:"status"`
	Note      string    `json:"note"`
}

// statsResponse son los agregados de adherencia.
type statsResponse struct {
	Taken     int  `json:"taken"`
	Missed    int  `json:"missed"`
	Unknown   int  `json:"unknown"`
	TakenPct  int  `json:"taken_pct"`
	MissedPct int  `json:"missed_pct"`
	Critical  bool `json:"critical"`
}

// listHistoryHandler godoc
// @Summary Listar el historial de tomas
// @Description Ledger mergeado (remoto + local), del más reciente al más viejo.
// @Tags history
// @Produce json
// @Param limit query int false "Máximo de registros (0 = todos)"
// @Success 200 {array} entryResponse
// @Router /history [get]
func listHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		entries := svc.Recent(limit)

		out := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, entryResponse{
				Timestamp: e.Timestamp,
				Medicine:  e.Medicine,
				Dose:      e.Dose,
				Status:    e.Status,
				Note:      e.Note,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// statsHandler godoc
// @Summary Estadísticas de adherencia
// @Description Conteos y porcentajes taken/missed sobre el ledger mergeado. critical=true cuando missed_pct >= 50.
// @Tags history
// @Produce json
// @Success 200 {object} statsResponse
// @Router /stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := Compute(svc.Merged())
		writeJSON(w, http.StatusOK, statsResponse{
			Taken:     st.Taken,
			Missed:    st.Missed,
			Unknown:   st.Unknown,
			TakenPct:  st.TakenPct,
			MissedPct: st.MissedPct,
			Critical:  st.Critical,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
