// internal/workers/lead/sync-crm-lead/models.go
package synccrmlead

import "lifecycle-audit-workers/internal/audit"

type Input struct {
	AuditID      string              `json:"auditId"`
	AuditResults *audit.AuditResults `json:"auditResults"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionSkipped = "skipped"
)

type Output struct {
	CRMLeadID string `json:"crmLeadId,omitempty"`
	CRMAction string `json:"crmAction"`
}
