package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env is the process configuration read from the environment.
type Env struct {
	Addr             string        `env:"ZAWOMONS_ADDR"              envDefault:":8080"`
	CatalogPath      string        `env:"ZAWOMONS_CATALOG"           envDefault:"./zawomons_catalog.yaml"`
	DBPath           string        `env:"ZAWOMONS_DB"                envDefault:"./data/zawomons.db"`
	CommitHold       time.Duration `env:"ZAWOMONS_COMMIT_HOLD"       envDefault:"1s"`
	SelectionTimeout time.Duration `env:"ZAWOMONS_SELECTION_TIMEOUT" envDefault:"0s"`
	RemoteLatency    time.Duration `env:"ZAWOMONS_REMOTE_LATENCY"    envDefault:"150ms"`
	MaxPartySize     int           `env:"ZAWOMONS_MAX_PARTY_SIZE"    envDefault:"3"`
	FinishedTTL      time.Duration `env:"ZAWOMONS_FINISHED_TTL"      envDefault:"10m"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads optional dotenv files and then the environment. Variables
// already set in the environment win over the files. A missing file is not
// an error.
func LoadEnv(files ...string) (*Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.MaxPartySize < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", "ZAWOMONS_MAX_PARTY_SIZE", cfg.MaxPartySize)
	}
	if cfg.CommitHold < 0 || cfg.SelectionTimeout < 0 || cfg.RemoteLatency < 0 || cfg.FinishedTTL < 0 {
		return nil, errors.New("durations must not be negative")
	}
	return &cfg, nil
}
