package router

import (
	"context"
	"net/http"

	"meditrack/internal/domain/alarm"
	"meditrack/internal/domain/history"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/ports/notify"
	"meditrack/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Session *session.Session
	Sink    notify.Sink // puede ser nil
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	sink := opts.Sink
	if sink == nil {
		sink = notify.Nop{}
	}

	// Rutas por módulo
	schedule.RegisterRoutes(r, opts.Session.Schedule, sink)
	history.RegisterRoutes(r, opts.Session.History)
	alarm.RegisterRoutes(r, opts.Session.Alarms, opts.Session.Schedule)

	// Refresh godoc
	// @Summary      Re-sincroniza schedule e history desde la fuente remota
	// @Tags         sync
	// @Success      202
	// @Router       /refresh [post]
	r.Post("/refresh", func(w http.ResponseWriter, _ *http.Request) {
		// El sync sigue corriendo aunque el request termine.
		go opts.Session.Refresh(context.Background())
		w.WriteHeader(http.StatusAccepted)
	})

	return r
}
