// internal/workers/audit/publish-audit-event/models.go
package publishauditevent

import "lifecycle-audit-workers/internal/audit"

type Input struct {
	AuditID      string              `json:"auditId"`
	AuditResults *audit.AuditResults `json:"auditResults"`
}

type Output struct {
	EventPublished bool   `json:"eventPublished"`
	EventType      string `json:"eventType"`
}
