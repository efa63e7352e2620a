package config

import "fmt"

// Validate checks a Config for internally consistent values.
func Validate(cfg *Config) error {
	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if cfg.MCP.MaxResults <= 0 {
		return fmt.Errorf("mcp.max_results must be positive, got %d", cfg.MCP.MaxResults)
	}
	return nil
}
