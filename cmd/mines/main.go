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

	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/console"
	"github.com/vancomm/minesweeper-engine/internal/journal"
	"github.com/vancomm/minesweeper-engine/internal/metrics"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/saves"
)

const metricsInterval = 15 * time.Second

var envPath string

func init() {
	const usage = "env file path"
	flag.StringVar(&envPath, "env", ".env", usage)
	flag.StringVar(&envPath, "e", ".env", usage+" (shorthand)")
}

func newLogger() *slog.Logger {
	if config.Development() {
		return slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}),
		)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func main() {
	flag.Parse()

	if err := config.Load(envPath); err != nil {
		slog.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	logger := newLogger()
	mines.Log = logger

	if err := run(logger); err != nil {
		logger.Error("exit", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	boardConfig, err := config.Board()
	if err != nil {
		return err
	}
	savesConfig, err := config.NewSaves()
	if err != nil {
		return err
	}

	store, err := saves.Open(ctx, savesConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	j, err := journal.New(config.JournalFile())
	if err != nil {
		return err
	}
	defer j.Close()

	board := mines.New()
	if err := board.Init(boardConfig); err != nil {
		return err
	}

	m := metrics.New()
	metricsFile := config.MetricsFile()

	session, err := console.NewSession(console.Params{
		Board:       board,
		Settings:    config.Settings(),
		Store:       store,
		Journal:     j,
		Metrics:     m,
		MetricsFile: metricsFile,
		Out:         os.Stdout,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Info("starting up",
		"board", boardConfig,
		"saves", savesConfig.Backend,
		"development", config.Development(),
	)

	g, gCtx := errgroup.WithContext(ctx)
	runCtx, quit := context.WithCancel(gCtx)
	defer quit()

	g.Go(func() error {
		defer quit()
		if err := session.Exec(runCtx, "show"); err != nil {
			return err
		}
		return session.Run(runCtx, os.Stdin)
	})
	g.Go(func() error {
		ticker := time.NewTicker(metricsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return m.Flush(metricsFile)
			case <-ticker.C:
				if err := m.Flush(metricsFile); err != nil {
					logger.Error("failed to write metrics", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("bye")
	return nil
}
