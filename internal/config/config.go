package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/varoOP/moviefinder/internal/domain"
)

const EnvPrefix = "MOVIEFINDER"

// SetDefaults registers every configuration key, so environment variables
// (MOVIEFINDER_*) are picked up by Load even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", string(domain.ProviderOMDb))
	v.SetDefault("omdb_api_key", "")
	v.SetDefault("omdb_base_url", "https://www.omdbapi.com/")
	v.SetDefault("imdb_base_url", "https://www.imdb.com")
	v.SetDefault("database_dir", ".")
	v.SetDefault("page_size", 10)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("listen_addr", "127.0.0.1:7474")
	v.SetDefault("log_level", "info")
	v.SetDefault("discord_webhook_url", "")
}

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are skipped and variables already set are not overridden.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from multiple sources:
// 1. Config file (config.yaml or .moviefinder.yaml, optional)
// 2. Environment variables (MOVIEFINDER_*)
// 3. Flags bound by the command line
func Load(v *viper.Viper) (*domain.Config, error) {
	cfg := &domain.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Provider = domain.Provider(strings.ToLower(string(cfg.Provider)))
	if cfg.Provider == "" {
		cfg.Provider = domain.ProviderOMDb
	}

	switch cfg.Provider {
	case domain.ProviderOMDb:
		if cfg.OMDbAPIKey == "" {
			return nil, fmt.Errorf("omdb_api_key is required for provider omdb (set via config.yaml or %s_OMDB_API_KEY environment variable)", EnvPrefix)
		}
	case domain.ProviderIMDb:
	default:
		return nil, fmt.Errorf("invalid provider: %s (must be 'omdb' or 'imdb')", cfg.Provider)
	}

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("invalid page_size: %d (must be greater than 0)", cfg.PageSize)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid http_timeout: %s (must be greater than 0)", cfg.HTTPTimeout)
	}

	return cfg, nil
}
