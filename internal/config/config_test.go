package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/varoOP/moviefinder/internal/domain"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

func TestLoadDefaults(t *testing.T) {
	v := newViper()
	v.Set("omdb_api_key", "secret")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider != domain.ProviderOMDb || cfg.PageSize != 10 || cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.OMDbAPIKey != "secret" {
		t.Errorf("api key = %q", cfg.OMDbAPIKey)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MOVIEFINDER_PROVIDER", "IMDB")
	t.Setenv("MOVIEFINDER_PAGE_SIZE", "25")
	t.Setenv("MOVIEFINDER_HTTP_TIMEOUT", "5s")

	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider != domain.ProviderIMDb || cfg.PageSize != 25 || cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("provider: omdb\nomdb_api_key: filekey\ndatabase_dir: /var/lib/moviefinder\n"), 0644)

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OMDbAPIKey != "filekey" || cfg.DatabaseDir != "/var/lib/moviefinder" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{name: "omdb without key", set: map[string]any{}, wantErr: "omdb_api_key is required"},
		{name: "unknown provider", set: map[string]any{"provider": "tmdb"}, wantErr: "invalid provider"},
		{name: "zero page size", set: map[string]any{"provider": "imdb", "page_size": 0}, wantErr: "invalid page_size"},
		{name: "zero timeout", set: map[string]any{"provider": "imdb", "http_timeout": "0s"}, wantErr: "invalid http_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	os.WriteFile(path, []byte("MOVIEFINDER_TEST_DOTENV=from-file\n"), 0644)
	t.Cleanup(func() { os.Unsetenv("MOVIEFINDER_TEST_DOTENV") })

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if got := os.Getenv("MOVIEFINDER_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("env = %q, want from-file", got)
	}
}
