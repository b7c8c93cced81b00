package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finnparser/internal/bootstrap"
	"finnparser/internal/config"
	"finnparser/internal/logger"
	"finnparser/internal/monitor"
)

func main() {
	var (
		configPath = flag.String("config", "./config/config.yaml", "path to config.yaml")
		interval   = flag.Duration("interval", 0, "pause between polls (overrides monitor.interval_ms)")
		iterations = flag.Int("iterations", -1, "stop after n polls, 0 = forever (overrides monitor.max_iterations)")
		keepGoing  = flag.Bool("continue-on-error", false, "log failed polls instead of exiting")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Env:       cfg.Env,
		App:       "finnparser-monitor",
	})
	slog.SetDefault(log)

	if *interval > 0 {
		cfg.Monitor.IntervalMS = int(interval.Milliseconds())
	}
	if *iterations >= 0 {
		cfg.Monitor.MaxIterations = *iterations
	}
	if *keepGoing {
		cfg.Monitor.ContinueOnError = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finnSvc, err := bootstrap.BuildFinn(cfg, log, 1)
	if err != nil {
		log.Error("build finn client failed", "err", err)
		os.Exit(1)
	}

	store, closeStore, err := bootstrap.OpenSeen(ctx, cfg, log)
	if err != nil {
		log.Error("open seen store failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("close seen store failed", "err", err)
		}
	}()

	mon, err := monitor.New(monitor.Options{
		Searcher:        finnSvc,
		Seen:            store,
		Logger:          log,
		RefreshesPerLog: cfg.Monitor.RefreshesPerLog,
		Interval:        time.Duration(cfg.Monitor.IntervalMS) * time.Millisecond,
		MaxIterations:   cfg.Monitor.MaxIterations,
		ContinueOnError: cfg.Monitor.ContinueOnError,
	})
	if err != nil {
		log.Error("build monitor failed", "err", err)
		os.Exit(1)
	}

	log.Info("monitor started",
		"seen_backend", cfg.Seen.Backend,
		"interval_ms", cfg.Monitor.IntervalMS,
		"max_iterations", cfg.Monitor.MaxIterations,
	)

	if err := mon.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("monitor stopped")
			return
		}
		log.Error("monitor stopped with error", "err", err, "state", mon.State().String())
		closeStore()
		os.Exit(1)
	}
	log.Info("monitor finished", "iterations", cfg.Monitor.MaxIterations)
}
