// internal/workers/audit/index-audit-result/handler.go
package indexauditresult

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/database"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "index-audit-result"

type Handler struct {
	config     *Config
	es         *database.ElasticsearchClient
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	now        func() time.Time
}

func NewHandler(config *Config, es *database.ElasticsearchClient, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		es:         es,
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

// Execute indexes the report under its audit id, so retries overwrite the
// same document.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var missing []string
	if input.AuditID == "" {
		missing = append(missing, "auditId")
	}
	if input.AuditResults == nil {
		missing = append(missing, "auditResults")
	}
	if len(missing) > 0 {
		return nil, errors.NewAuditInputInvalidError("missing required variables", missing)
	}

	doc := models.AuditDocument{
		AuditSummary: models.NewAuditSummary(input.AuditID, input.AuditResults),
		Strengths:    input.AuditResults.Strengths,
		Weaknesses:   input.AuditResults.Weaknesses,
		GeneratedAt:  h.now(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	index := h.es.Client.Index
	res, err := index(h.config.IndexName, bytes.NewReader(body),
		index.WithContext(ctx),
		index.WithDocumentID(input.AuditID),
	)
	if err != nil {
		return nil, errors.NewIndexFailedError(h.config.IndexName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, errors.NewIndexFailedError(h.config.IndexName, fmt.Errorf("index request failed: %s: %s", res.Status(), detail))
	}

	h.logger.Info("Audit indexed", map[string]interface{}{
		"auditId": input.AuditID,
		"index":   h.config.IndexName,
	})

	return &Output{Indexed: true, IndexName: h.config.IndexName, DocumentID: input.AuditID}, nil
}
