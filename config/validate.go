package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for consistency and clamps settings
// that would violate network rules. It is called after all sources
// (defaults, file, flags) have been applied.
func (c *Config) Validate() error {
	if !c.Network.Valid() {
		return fmt.Errorf("unknown network: %q", c.Network)
	}
	if c.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}

	if c.Provider.Endpoint != "" {
		u, err := url.Parse(c.Provider.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid provider endpoint: %q", c.Provider.Endpoint)
		}
	}
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = 10
	}

	// Dust and funding floors can be raised by the operator, never lowered
	// below network rules.
	if c.Funding.DustLimit < NetworkDust {
		c.Funding.DustLimit = NetworkDust
	}
	if c.Funding.FeeRate == 0 {
		return fmt.Errorf("funding fee rate must be positive")
	}
	if c.Funding.MinFunding < c.Funding.DustLimit {
		c.Funding.MinFunding = c.Funding.DustLimit
	}

	switch c.Log.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Log.Level)
	}

	return nil
}
