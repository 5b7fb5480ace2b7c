// CLI configuration loaded from an optional YAML file; flags override
// file values.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config holds the CLI configuration file contents.
type config struct {
	// Datapath is the directory holding schema and table data files.
	Datapath string `yaml:"datapath"`
	// Database is the database name (schema file basename).
	Database string `yaml:"database"`
	// PrependDatabaseName prefixes table data filenames with the
	// database name.
	PrependDatabaseName bool `yaml:"prepend_database_name,omitempty"`
	// NoCache skips the schema-cache read at open.
	NoCache bool `yaml:"no_cache,omitempty"`
	// LegacyDelimiters selects the legacy delimiter pair.
	LegacyDelimiters bool `yaml:"legacy_delimiters,omitempty"`
	// CachePath is the SQLite schema-cache file. Blank keeps the default
	// next to the data.
	CachePath string `yaml:"cache_path,omitempty"`
	// TrackHistory commits every mutation to a git repository at the
	// datapath.
	TrackHistory bool `yaml:"track_history,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

func defaultConfig() config {
	return config{
		Datapath: ".",
		LogLevel: "info",
	}
}

// loadConfig reads the YAML config file at path. A missing file is only
// an error when the path was set explicitly.
func loadConfig(path string, explicit bool) (config, error) {
	cfg := defaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Datapath == "" {
		cfg.Datapath = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
