// internal/workers/audit/generate-lifecycle-audit/config.go
package generatelifecycleaudit

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout      time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		CacheEnabled: true,
		CacheTTL:     24 * time.Hour,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.CacheEnabled && c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive when the cache is enabled")
	}
	return nil
}
