// internal/workers/audit/generate-lifecycle-audit/models.go
package generatelifecycleaudit

import "lifecycle-audit-workers/internal/audit"

type Input struct {
	AuditForm audit.AuditFormData `json:"auditForm"`
	Currency  string              `json:"currency"`
}

// Output exposes the headline numbers next to the full report so gateways
// can branch on them without parsing the report.
type Output struct {
	AuditResults            *audit.AuditResults `json:"auditResults"`
	OverallScore            int                 `json:"overallScore"`
	TotalMonthlyOpportunity float64             `json:"totalMonthlyOpportunity"`
	CacheHit                bool                `json:"cacheHit"`
}
