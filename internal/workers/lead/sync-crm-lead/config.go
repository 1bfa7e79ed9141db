// internal/workers/lead/sync-crm-lead/config.go
package synccrmlead

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled    bool
	Timeout    time.Duration
	LeadSource string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		Timeout:    30 * time.Second,
		LeadSource: "Lifecycle Audit",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
