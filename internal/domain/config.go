package domain

import "time"

// Provider selects the remote catalog implementation.
type Provider string

const (
	// ProviderOMDb uses the OMDb JSON API (requires an api key)
	ProviderOMDb Provider = "omdb"
	// ProviderIMDb scrapes the IMDb website
	ProviderIMDb Provider = "imdb"
)

type Config struct {
	Provider          Provider      `mapstructure:"provider"`
	OMDbAPIKey        string        `mapstructure:"omdb_api_key"`
	OMDbBaseURL       string        `mapstructure:"omdb_base_url"`
	IMDbBaseURL       string        `mapstructure:"imdb_base_url"`
	DatabaseDir       string        `mapstructure:"database_dir"`
	PageSize          int           `mapstructure:"page_size"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	ListenAddr        string        `mapstructure:"listen_addr"`
	LogLevel          string        `mapstructure:"log_level"`
	DiscordWebhookURL string        `mapstructure:"discord_webhook_url"`
}
