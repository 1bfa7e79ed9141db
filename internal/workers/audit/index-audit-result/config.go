// internal/workers/audit/index-audit-result/config.go
package indexauditresult

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout   time.Duration
	IndexName string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		IndexName: "lifecycle-audits",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.IndexName == "" {
		return fmt.Errorf("index_name is required")
	}
	return nil
}
