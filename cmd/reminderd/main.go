package main

import (
	"context"
	"os"

	"github.com/016jesus/proyecto-justiconsulta/internal/app"
	"github.com/016jesus/proyecto-justiconsulta/internal/config"
	"github.com/016jesus/proyecto-justiconsulta/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	// Ensure logger flush; ignore sync error (common on some platforms).
	defer func() { _ = log.Sync() }()

	application := app.New(cfg, log)
	if err := application.Run(context.Background()); err != nil {
		log.Sugar().Fatalw("reminderd exited with error", "err", err)
	}
}
