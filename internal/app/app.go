// Package app is the composition root: it wires the store, the mailer,
// and the reminder scheduler, and owns process lifecycle.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/016jesus/proyecto-justiconsulta/internal/config"
	"github.com/016jesus/proyecto-justiconsulta/internal/mailer"
	"github.com/016jesus/proyecto-justiconsulta/internal/reminder"
	"github.com/016jesus/proyecto-justiconsulta/internal/store"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	httpSrv *http.Server
	st      store.Store
}

func New(cfg config.Config, log *zap.Logger) *App {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, httpSrv: srv}
}

// Run wires everything and blocks until a shutdown signal arrives.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting reminderd",
		zap.String("db_driver", a.cfg.DBDriver),
		zap.String("tz", a.cfg.TimeZone),
		zap.Duration("tick", a.cfg.TickInterval),
		zap.String("http", a.cfg.HTTPAddr),
	)

	st, err := store.Open(ctx, a.cfg.DBDriver, a.cfg.DBDSN)
	if err != nil {
		a.log.Error("store open failed", zap.Error(err))
		return err
	}
	a.st = st
	a.log.Info("store ready")

	sender, err := mailer.New(mailer.Config{
		Host:     a.cfg.SMTPHost,
		Port:     a.cfg.SMTPPort,
		Username: a.cfg.SMTPUsername,
		Password: a.cfg.SMTPPassword,
		From:     a.cfg.MailFrom,
		AppURL:   a.cfg.AppURL,
	}, a.log)
	if err != nil {
		a.log.Error("mailer init failed", zap.Error(err))
		return err
	}

	loc, err := time.LoadLocation(a.cfg.TimeZone)
	if err != nil {
		return err
	}

	clk := clock.New()
	dispatcher := reminder.NewDispatcher(st, st, st, sender, a.log)
	scheduler := reminder.NewScheduler(st, dispatcher, a.log, clk, a.cfg.TickInterval, loc)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Run(ctx)

	a.log.Info("shutdown signal received")

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}
	if a.st != nil {
		_ = a.st.Close()
	}
	return nil
}
