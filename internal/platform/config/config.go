// Package config loads process configuration by layering defaults, an
// optional YAML file and environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains everything the process needs to start.
type Config struct {
	ServiceName string `koanf:"service_name"`
	LogLevel    string `koanf:"log_level"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GenresPath points at the newline-delimited catalog file.
	GenresPath string `koanf:"genres_path"`

	// DatabaseURL selects the Postgres backend; empty means the in-memory
	// store (development only).
	DatabaseURL string `koanf:"database_url"`

	// NATSURL enables event publishing; empty means stub mode.
	NATSURL string `koanf:"nats_url"`

	// JWTSecret signs/verifies bearer tokens on the authenticated routes.
	JWTSecret string `koanf:"jwt_secret"`

	// PageSize is the number of entries per page in rankings and search.
	PageSize int `koanf:"page_size"`
}

func defaults() Config {
	return Config{
		ServiceName: "genrelog",
		LogLevel:    "info",
		Addr:        ":8080",
		GenresPath:  "genres.txt",
		PageSize:    15,
	}
}

// Load builds a Config. Precedence (low -> high):
//  1. defaults
//  2. YAML file named by GENRELOG_CONFIG, if set
//  3. environment variables with the GENRELOG_ prefix
//     (GENRELOG_ADDR, GENRELOG_DATABASE_URL, ...)
func Load() (Config, error) {
	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv("GENRELOG_CONFIG")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	envProvider := env.Provider("GENRELOG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GENRELOG_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Addr) == "" {
		return Config{}, errors.New("addr must not be empty")
	}
	if strings.TrimSpace(cfg.GenresPath) == "" {
		return Config{}, errors.New("genres_path must not be empty")
	}
	if cfg.PageSize < 1 {
		return Config{}, errors.New("page_size must be at least 1")
	}
	return cfg, nil
}
