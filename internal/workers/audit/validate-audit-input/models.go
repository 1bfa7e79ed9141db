// internal/workers/audit/validate-audit-input/models.go
package validateauditinput

import "lifecycle-audit-workers/internal/audit"

// Output carries the normalized form forward so later tasks never see
// missing fields.
type Output struct {
	AuditForm  audit.AuditFormData `json:"auditForm"`
	Currency   string              `json:"currency"`
	InputValid bool                `json:"inputValid"`
}
