// internal/workers/audit/index-audit-result/models.go
package indexauditresult

import "lifecycle-audit-workers/internal/audit"

type Input struct {
	AuditID      string              `json:"auditId"`
	AuditResults *audit.AuditResults `json:"auditResults"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	IndexName  string `json:"indexName"`
	DocumentID string `json:"documentId"`
}
