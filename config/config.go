// Package config loads cache settings from the environment.
//
// An optional .env file in the working directory is read once, before the
// first parse. Variables already set in the environment take precedence.
//
//	LRU_CAPACITY          initial capacity (100)
//	LRU_DEFAULT_CAPACITY  capacity restored by Reset under the "default" policy (100)
//	LRU_RESET_POLICY      "preserve" or "default" (preserve)
//	LRU_LOG_LEVEL         debug, info, warn or error (info)
//	LRU_LOG_FORMAT        text or json (text)
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	lru "github.com/venkatsvpr/lrucache"
	"github.com/venkatsvpr/lrucache/internal/logger"
)

// Config holds the settings of the demo cache.
type Config struct {
	Capacity        int    `env:"LRU_CAPACITY" envDefault:"100"`
	DefaultCapacity int    `env:"LRU_DEFAULT_CAPACITY" envDefault:"100"`
	ResetPolicy     string `env:"LRU_RESET_POLICY" envDefault:"preserve"`
	LogLevel        string `env:"LRU_LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"LRU_LOG_FORMAT" envDefault:"text"`
}

var defaultEnvLoaded sync.Once

// Load reads the configuration from the environment.
func Load() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if _, err := lru.ParseResetPolicy(cfg.ResetPolicy); err != nil {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidResetPolicy, cfg.ResetPolicy)
	}
	return cfg, nil
}

// Logger builds a logger writing to w at the configured level and format.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Join(ErrInvalidLogging, err)
	}
	format, err := logger.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, errors.Join(ErrInvalidLogging, err)
	}
	return logger.New(
		logger.WithOutput(w),
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithAttr(slog.String("service", "lrucache")),
	), nil
}

// CacheOptions translates the configuration into cache options.
func (c Config) CacheOptions(l *slog.Logger) ([]lru.Option, error) {
	policy, err := lru.ParseResetPolicy(c.ResetPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResetPolicy, c.ResetPolicy)
	}
	return []lru.Option{
		lru.WithLogger(l),
		lru.WithResetPolicy(policy),
		lru.WithDefaultCapacity(c.DefaultCapacity),
	}, nil
}
