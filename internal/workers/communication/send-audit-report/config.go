// internal/workers/communication/send-audit-report/config.go
package sendauditreport

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout             time.Duration
	EmailEnabled        bool
	SalesAlertEnabled   bool
	SalesTopicARN       string
	SalesAlertThreshold float64
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:             30 * time.Second,
		EmailEnabled:        true,
		SalesAlertThreshold: 50000,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.SalesAlertEnabled && c.SalesTopicARN == "" {
		return fmt.Errorf("sales_topic_arn is required when sales alerts are enabled")
	}
	if c.SalesAlertThreshold < 0 {
		return fmt.Errorf("sales_alert_threshold must not be negative")
	}
	return nil
}
