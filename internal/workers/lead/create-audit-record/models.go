// internal/workers/lead/create-audit-record/models.go
package createauditrecord

import "lifecycle-audit-workers/internal/audit"

type Input struct {
	ProcessInstanceKey int64               `json:"-"`
	AuditForm          audit.AuditFormData `json:"auditForm"`
	AuditResults       *audit.AuditResults `json:"auditResults"`
}

// Output identifies the stored record. Existing is set when a retried job
// found the record its first attempt had already written.
type Output struct {
	AuditID   string `json:"auditId"`
	CreatedAt string `json:"createdAt"`
	Existing  bool   `json:"existingRecord"`
}
