package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/hostwatch/internal/config"
	"codeberg.org/mutker/hostwatch/internal/logger"
	"codeberg.org/mutker/hostwatch/internal/metrics"
	"codeberg.org/mutker/hostwatch/internal/notify"
	"codeberg.org/mutker/hostwatch/internal/pid"
	"codeberg.org/mutker/hostwatch/internal/watchdog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogDir, cfg.LogFile, cfg.Debug, cfg.Verbose, logger.IsService()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")

	if err := pid.Write(); err != nil {
		logger.Error().Err(err).Str("path", pid.Path()).Msg("failed to write PID file")
		os.Exit(1)
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	identity := metrics.ResolveIdentity()
	logger.Info().
		Str("server", cfg.ServerName).
		Str("os", identity.OS).
		Str("arch", identity.Arch).
		Msg("Host identity resolved")

	monitor := watchdog.New(
		watchdog.Config{
			Threshold:      cfg.Threshold,
			AlertInterval:  cfg.AlertPeriod(),
			StatusInterval: cfg.StatusPeriod(),
		},
		metrics.NewSystemProvider(cfg.ExcludeMount),
		metrics.NewResolver(),
		notify.NewTelegram(cfg.BotToken, cfg.ChatID, cfg.ServerName, identity, cfg.Timeout()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := monitor.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in monitoring run")
	}
	logger.Info().Msg("Exiting...")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
