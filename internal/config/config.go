// Package config defines the extractor's configuration shape and defaults.
package config

// Config represents the complete spicemodel configuration.
// It can be loaded from .spicemodel/config.yml with environment variable
// overrides.
type Config struct {
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	MCP     MCPConfig     `yaml:"mcp" mapstructure:"mcp"`
}

// ExtractConfig controls the netlist extractor.
type ExtractConfig struct {
	LogPath string `yaml:"log_path" mapstructure:"log_path"` // optional anomaly log; empty disables logging
	Watch   bool   `yaml:"watch" mapstructure:"watch"`        // re-extract on file change
}

// StoreConfig controls the relational store backend.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // sqlite file path, ":memory:" for ephemeral
}

// MCPConfig holds query result settings. The MCP server does not read it:
// its tools fall back to the store's built-in cap of 100.
type MCPConfig struct {
	MaxResults int `yaml:"max_results" mapstructure:"max_results"` // default cap the query subcommand applies when --limit is omitted
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			LogPath: "",
			Watch:   false,
		},
		Store: StoreConfig{
			Path: ".spicemodel/models.db",
		},
		MCP: MCPConfig{
			MaxResults: 100,
		},
	}
}
