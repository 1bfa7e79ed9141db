// internal/common/events/publisher.go
package events

import (
	"context"

	"lifecycle-audit-workers/internal/common/logger"
)

// Publisher delivers an encoded event. partitionKey keeps events for the same
// lead ordered.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
	Close() error
}

// LoggingPublisher only logs events. It stands in when Kafka is disabled.
type LoggingPublisher struct {
	logger logger.Logger
}

func NewLoggingPublisher(log logger.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: log}
}

func (p *LoggingPublisher) Publish(_ context.Context, eventType string, payload []byte, partitionKey string) error {
	p.logger.Info("Event published", map[string]interface{}{
		"eventType":    eventType,
		"partitionKey": partitionKey,
		"payloadBytes": len(payload),
	})
	return nil
}

func (p *LoggingPublisher) Close() error {
	return nil
}
