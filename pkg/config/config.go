package config

import "time"

// Config holds all runtime configuration
type Config struct {
	// Tenant API settings
	BaseURL        string
	APIToken       string
	Insecure       bool
	RequestTimeout time.Duration
	RateLimit      int

	// Collection settings
	Lookback          time.Duration
	Namespaces        []string
	ExcludeNamespaces []string
	FailFast          bool

	// Output settings
	OutputDir string
	Format    string

	// History settings
	HistoryDSN string

	// Operational flags
	Verbose bool
	DryRun  bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout: 30 * time.Second,
		RateLimit:      10,
		Lookback:       30 * 24 * time.Hour, // 30 days
		FailFast:       false,
		OutputDir:      "./report",
		Format:         "csv",
		Verbose:        false,
		DryRun:         false,
	}
}

// LookbackDays returns the lookback window in whole days.
func (c *Config) LookbackDays() int {
	return int(c.Lookback.Hours() / 24)
}
