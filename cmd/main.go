package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bargain/internal/application"
	"bargain/internal/config"
	"bargain/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.NewLogger(os.Stderr, logx.ParseLevel("info")).Error("config load", logx.Error(err))
		os.Exit(1)
	}

	log := logx.NewLogger(os.Stdout, logx.ParseLevel(cfg.App.LogLevel)).With(
		"app", cfg.App.Name,
		"version", cfg.App.Version,
	)

	if err := application.Run(ctx, cfg, log); err != nil {
		log.Error("application failed", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
