// Package config loads the command-line tool configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the tool settings.
type Config struct {
	// Database is the path of the SQLite database file.
	Database string `yaml:"database"`
	// Hubs are the currencies tried as triangulation hubs, in order.
	Hubs []string `yaml:"hubs"`
	// AuditLog is the path of the audit log file. Empty disables
	// auditing.
	AuditLog string `yaml:"audit_log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database: "book.db",
		Hubs:     []string{"USD", "EUR"},
	}
}

// Load reads the configuration from a YAML file, filling unset fields
// with defaults.
func Load(path string) (Config, error) {
	res := Default()
	if path == "" {
		return res, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &res); err != nil {
		return res, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if res.Database == "" {
		res.Database = Default().Database
	}
	if len(res.Hubs) == 0 {
		res.Hubs = Default().Hubs
	}
	return res, nil
}
