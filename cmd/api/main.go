package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "meditrack/docs" // registro del doc.json generado por swag
	"meditrack/internal/adapters/notify/logsink"
	"meditrack/internal/adapters/notify/pushover"
	"meditrack/internal/adapters/remote/sheets"
	"meditrack/internal/adapters/storage/memory"
	pg "meditrack/internal/adapters/storage/postgres"
	sq "meditrack/internal/adapters/storage/sqlite"
	"meditrack/internal/config"
	"meditrack/internal/domain/history"
	"meditrack/internal/domain/schedule"
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
	"meditrack/internal/ports/remote"
	"meditrack/internal/router"
	"meditrack/internal/session"
)

// @title        MediTrack API
// @version      1.0
// @description  Recordatorio de medicación: plan mergeado, alarmas con reintento acotado e historial de tomas.
// @BasePath     /
func main() {
	configPath := flag.String("config", "", "ruta al archivo de configuración (default: ./meditrack.yaml si existe)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(logger.Options{}).Error("failed to load config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "meditrack",
	})

	// Storage local según driver.
	var (
		schedRepo schedule.Repository
		histRepo  history.Repository
	)
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := pg.Open(cfg.Storage.DSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		schedRepo = pg.NewScheduleRepo(db)
		histRepo = pg.NewHistoryRepo(db)
	case "sqlite":
		db, err := sq.Open(cfg.Storage.Path)
		if err != nil {
			log.Error("sqlite open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		schedRepo = sq.NewScheduleRepo(db)
		histRepo = sq.NewHistoryRepo(db)
	default:
		schedRepo = memory.NewScheduleRepo()
		histRepo = memory.NewHistoryRepo()
	}

	// Fuente remota opcional. Un *Client nil no debe viajar como
	// interfaz no-nil.
	var source remote.RowSource
	if c := sheets.New(cfg.Sheets.SpreadsheetID, cfg.Sheets.APIKey); c != nil {
		source = c
	} else {
		log.Info("sheets source not configured, running local-only", nil)
	}

	// Sinks: log siempre; push solo con credenciales.
	sinks := notify.Fanout{logsink.New(log)}
	if push := pushover.New(cfg.Pushover.Token, cfg.Pushover.User, log); push != nil {
		sinks = append(sinks, push)
		log.Info("pushover sink enabled", nil)
	}

	sess := session.New(session.Options{
		ScheduleRepo:    schedRepo,
		HistoryRepo:     histRepo,
		Source:          source,
		ScheduleRng:     cfg.Sheets.ScheduleRange,
		HistoryRng:      cfg.Sheets.HistoryRange,
		HistoryCap:      cfg.History.LocalCap,
		Sink:            sinks,
		Log:             log,
		ResponseTimeout: cfg.Alarm.ResponseTimeout,
		RetryDelay:      cfg.Alarm.RetryDelay,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.NewRouter(router.Options{Session: sess, Sink: sinks}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down", nil)
	cancel() // frena ticker y refresh pendientes

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
	}
}
