// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/heathj/domevents/dom"
	"github.com/heathj/domevents/input"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	LogLevel  string `env:"DOMEVENTS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"DOMEVENTS_LOG_FORMAT" envDefault:"text"`

	// Strict turns protocol violations (duplicate pointer down, dispatch to a
	// nil target) into errors and panics instead of logged repairs.
	Strict bool `env:"DOMEVENTS_STRICT" envDefault:"false"`

	QueueDelay time.Duration `env:"DOMEVENTS_QUEUE_DELAY" envDefault:"0s"`
	// ClickSlop in px; 0 synthesises clicks regardless of pointer travel.
	ClickSlop float64 `env:"DOMEVENTS_CLICK_SLOP" envDefault:"0"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the given .env files, or ./.env when none are named, and then
// parses the process environment. A missing default .env is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrap(err, "load .env")
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, errors.Wrapf(err, "load %v", files)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	return cfg, cfg.Validate()
}

// Parse builds a Config from environ alone, ignoring the process environment.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "DOMEVENTS_LOG_LEVEL")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("DOMEVENTS_LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	if c.QueueDelay < 0 {
		return errors.Errorf("DOMEVENTS_QUEUE_DELAY: negative delay %s", c.QueueDelay)
	}
	if c.ClickSlop < 0 {
		return errors.Errorf("DOMEVENTS_CLICK_SLOP: negative slop %v", c.ClickSlop)
	}
	return nil
}

func (c Config) DocumentOptions(log logrus.FieldLogger) []dom.DocumentOption {
	return []dom.DocumentOption{
		dom.WithLogger(log),
		dom.WithStrict(c.Strict),
		dom.WithQueueDelay(c.QueueDelay),
	}
}

func (c Config) RouterOptions(log logrus.FieldLogger) []input.RouterOption {
	return []input.RouterOption{
		input.WithLogger(log),
		input.WithStrict(c.Strict),
		input.WithClickSlop(c.ClickSlop),
	}
}
