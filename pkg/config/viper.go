package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper. It sets
// defaults from NewDefaultConfig(), reads config.toml (if found), and
// binds environment variables with the GAVEL_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (GAVEL_STORAGE_BACKEND, GAVEL_INGEST_WORKERS, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	dir, err := resolveDir(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	if dir != "" {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("GAVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper materializes a Config from the viper precedence chain.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Storage: StorageConfig{
			Backend:     v.GetString("storage.backend"),
			SQLitePath:  v.GetString("storage.sqlite_path"),
			PostgresDSN: v.GetString("storage.postgres_dsn"),
		},
		Ingest: IngestConfig{
			Models:    v.GetStringSlice("ingest.models"),
			Labels:    v.GetStringSlice("ingest.labels"),
			Extension: v.GetString("ingest.extension"),
			Workers:   v.GetUint("ingest.workers"),
		},
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into
// viper using dotted-key notation. This keeps defaults.go as the single
// source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Storage
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)

	// Ingest
	v.SetDefault("ingest.models", d.Ingest.Models)
	v.SetDefault("ingest.labels", d.Ingest.Labels)
	v.SetDefault("ingest.extension", d.Ingest.Extension)
	v.SetDefault("ingest.workers", d.Ingest.Workers)
}
