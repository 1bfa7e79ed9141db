// internal/workers/audit/publish-audit-event/handler.go
package publishauditevent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/events"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "publish-audit-event"

type Handler struct {
	config     *Config
	publisher  events.Publisher
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	now        func() time.Time
}

func NewHandler(config *Config, publisher events.Publisher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		publisher:  publisher,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("Processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var output *Output
	var input Input
	err := json.Unmarshal([]byte(job.Variables), &input)
	if err != nil {
		err = errors.NewAuditInputInvalidError(fmt.Sprintf("parse variables: %v", err), nil)
	} else {
		output, err = h.Execute(ctx, &input)
	}

	camunda.FinishJob(ctx, client, job, TaskType, started, output, err, h.errHandler, h.logger)
}

// Execute publishes an audit-generated event keyed by the lowercased lead
// email, so every event for one lead lands on the same partition.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.AuditResults == nil {
		return nil, errors.NewAuditInputInvalidError("auditResults is required", []string{"auditResults"})
	}

	event := models.AuditEvent{
		EventType:  models.EventAuditGenerated,
		OccurredAt: h.now(),
		Audit:      models.NewAuditSummary(input.AuditID, input.AuditResults),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	key := strings.ToLower(input.AuditResults.LeadData.Email)
	if key == "" {
		key = input.AuditID
	}

	if err := h.publisher.Publish(ctx, event.EventType, payload, key); err != nil {
		return nil, errors.NewEventPublishFailedError(event.EventType, err)
	}

	h.logger.Info("Audit event published", map[string]interface{}{
		"auditId":   input.AuditID,
		"eventType": event.EventType,
	})
	return &Output{EventPublished: true, EventType: event.EventType}, nil
}
