// internal/workers/communication/send-audit-report/models.go
package sendauditreport

import (
	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/models"
)

type Input struct {
	AuditID      string              `json:"auditId"`
	AuditResults *audit.AuditResults `json:"auditResults"`
}

type Output struct {
	Notifications []models.Notification `json:"notifications"`
	SalesAlerted  bool                  `json:"salesAlerted"`
}
