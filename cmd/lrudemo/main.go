package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	lru "github.com/venkatsvpr/lrucache"
	"github.com/venkatsvpr/lrucache/config"
	"github.com/venkatsvpr/lrucache/internal/logger"
	"github.com/venkatsvpr/lrucache/internal/scenario"
)

var shared lru.Registry[string, string]

func main() {
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario (default: built-in subscribe/unsubscribe demo)")
	flag.Parse()

	// Signal-aware context: steps stop at the next boundary on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *scenarioPath); err != nil {
		fmt.Fprintf(os.Stderr, "lrudemo: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, scenarioPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	opts, err := cfg.CacheOptions(log)
	if err != nil {
		return err
	}

	s := scenario.Default()
	if scenarioPath != "" {
		data, err := os.ReadFile(scenarioPath)
		if err != nil {
			return err
		}
		if s, err = scenario.Parse(data); err != nil {
			return err
		}
	}

	c, err := shared.GetOrCreate(cfg.Capacity, opts...)
	if err != nil {
		return err
	}
	defer shared.Release()

	log.Info("running scenario",
		logger.Event("scenario_start"),
		slog.String("scenario", s.Name),
		logger.Capacity(c.Cap()),
		logger.Count(len(s.Steps)),
	)
	if err := scenario.Run(ctx, s, c, os.Stdout); err != nil {
		log.Warn("scenario stopped", logger.Error(err))
		return err
	}
	log.Info("scenario finished", logger.Event("scenario_done"), logger.Count(c.Len()))
	return nil
}
