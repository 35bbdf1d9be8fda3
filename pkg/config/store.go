package config

import (
	"fmt"
	"strings"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverSqlite   = "sqlite"
)

// StoreConfig selects the backing store of the product catalog.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	Seed   bool   `koanf:"seed"`
	Sqlite struct {
		Path string `koanf:"path"`
	} `koanf:"sqlite"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	b.WriteString(fmt.Sprintf("  seed: %t\n", c.Seed))
	b.WriteString(fmt.Sprintf("  sqlite.path: %s\n", c.Sqlite.Path))
	return b.String()
}

// Validate defaults an empty driver to the in-memory store.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case "":
		c.Driver = StoreDriverMemory
	case StoreDriverMemory, StoreDriverPostgres:
	case StoreDriverSqlite:
		if c.Sqlite.Path == "" {
			return fmt.Errorf("sqlite store selected but store.sqlite.path is not configured")
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.Driver)
	}
	return nil
}
