// internal/workers/lead/sync-crm-lead/handler.go
package synccrmlead

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/common/zoho"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "sync-crm-lead"

// CRM is the lead API used by the handler. *zoho.CRMClient implements it.
type CRM interface {
	SearchLeadByEmail(ctx context.Context, email string) (*zoho.Lead, error)
	CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
	UpdateLead(ctx context.Context, leadID string, lead *zoho.Lead) (string, error)
}

type Handler struct {
	config     *Config
	crm        CRM
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, crm CRM, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		crm:        crm,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
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

// Execute updates the lead registered under the audit email, or creates one.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.Enabled {
		h.logger.Info("CRM sync disabled by configuration", nil)
		return &Output{CRMAction: ActionSkipped}, nil
	}
	if input.AuditResults == nil {
		return nil, errors.NewAuditInputInvalidError("auditResults is required", []string{"auditResults"})
	}
	if input.AuditResults.LeadData.Email == "" {
		h.logger.Info("Lead has no email, skipping CRM sync", map[string]interface{}{"auditId": input.AuditID})
		return &Output{CRMAction: ActionSkipped}, nil
	}

	lead := h.buildLead(input)

	existing, err := h.crm.SearchLeadByEmail(ctx, lead.Email)
	if err != nil {
		return nil, errors.NewCRMSyncFailedError(err)
	}

	if existing != nil && existing.ID != "" {
		id, err := h.crm.UpdateLead(ctx, existing.ID, lead)
		if err != nil {
			return nil, errors.NewCRMSyncFailedError(err)
		}
		h.logger.Info("CRM lead updated", map[string]interface{}{"crmLeadId": id, "auditId": input.AuditID})
		return &Output{CRMLeadID: id, CRMAction: ActionUpdated}, nil
	}

	id, err := h.crm.CreateLead(ctx, lead)
	if err != nil {
		return nil, errors.NewCRMSyncFailedError(err)
	}
	h.logger.Info("CRM lead created", map[string]interface{}{"crmLeadId": id, "auditId": input.AuditID})
	return &Output{CRMLeadID: id, CRMAction: ActionCreated}, nil
}

func (h *Handler) buildLead(input *Input) *zoho.Lead {
	results := input.AuditResults
	company := results.LeadData.CompanyName
	if company == "" {
		company = results.LeadData.Email
	}

	var description strings.Builder
	fmt.Fprintf(&description, "Lifecycle audit %s: overall score %d vs industry benchmark %d.",
		input.AuditID, results.OverallScore, results.IndustryBenchmark)
	for _, rec := range results.Recommendations {
		description.WriteString("\n- ")
		description.WriteString(rec)
	}

	return &zoho.Lead{
		Company:            company,
		Email:              results.LeadData.Email,
		LastName:           company,
		Industry:           results.LeadData.Industry,
		Source:             h.config.LeadSource,
		Description:        description.String(),
		AuditScore:         results.OverallScore,
		IndustryBenchmark:  results.IndustryBenchmark,
		MonthlyOpportunity: results.TotalMonthlyOpportunity,
	}
}
