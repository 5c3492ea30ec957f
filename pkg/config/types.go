package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent gavel configuration stored as
// config.toml in the .gavel/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Storage StorageConfig `toml:"storage"`
	Ingest  IngestConfig  `toml:"ingest"`
}

// StorageConfig selects and parameterizes the storage backend.
type StorageConfig struct {
	// Backend is "sqlite", "postgres", or "inmemory".
	Backend     string `toml:"backend,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// IngestConfig holds transcript import settings. Models is the ordered
// roster: its order is the semantic model for the response positions
// within every turn, because the export itself carries no model markers
// (a changed export order is a config edit, not a code change). Labels
// is the blinded display alphabet and must match the roster length.
type IngestConfig struct {
	Models    []string `toml:"models,omitempty"`
	Labels    []string `toml:"labels,omitempty"`
	Extension string   `toml:"extension,omitempty"`
	Workers   uint     `toml:"workers,omitempty"`
}

// Validate checks the cross-field invariants the parser and randomizer
// rely on.
func (c *Config) Validate() error {
	if len(c.Ingest.Models) == 0 {
		return errors.New("config: ingest.models must not be empty")
	}
	if len(c.Ingest.Labels) != len(c.Ingest.Models) {
		return fmt.Errorf("config: %d labels for %d models, counts must match",
			len(c.Ingest.Labels), len(c.Ingest.Models))
	}

	switch c.Storage.Backend {
	case "sqlite", "postgres", "inmemory":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}

	return nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and
// setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure. List
// values (models, labels) are comma-separated on the command line.
var configKeys = map[string]configKeyInfo{
	"storage.backend": {
		get: func(c *Config) string { return c.Storage.Backend },
		set: func(c *Config, v string) error { c.Storage.Backend = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"ingest.models": {
		get: func(c *Config) string { return strings.Join(c.Ingest.Models, ",") },
		set: func(c *Config, v string) error { c.Ingest.Models = splitList(v); return nil },
	},
	"ingest.labels": {
		get: func(c *Config) string { return strings.Join(c.Ingest.Labels, ",") },
		set: func(c *Config, v string) error { c.Ingest.Labels = splitList(v); return nil },
	},
	"ingest.extension": {
		get: func(c *Config) string { return c.Ingest.Extension },
		set: func(c *Config, v string) error { c.Ingest.Extension = v; return nil },
	},
	"ingest.workers": {
		get: func(c *Config) string {
			if c.Ingest.Workers == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Ingest.Workers), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for ingest.workers: %w", err)
			}
			c.Ingest.Workers = uint(n)
			return nil
		},
	},
}

// splitList parses a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
