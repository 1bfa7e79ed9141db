// internal/models/models_test.go
package models

import (
	"testing"

	"lifecycle-audit-workers/internal/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuditSummary(t *testing.T) {
	results, err := audit.GenerateProfessionalAudit(audit.AuditFormData{
		CompanyName:    "Acme Inc",
		Email:          "jane@acme.com",
		Industry:       "Fashion & Apparel",
		Acquisition:    7,
		Activation:     8,
		Nurture:        5,
		Retention:      4,
		Winback:        6,
		MonthlyRevenue: 200000,
	}, "USD")
	require.NoError(t, err)

	summary := NewAuditSummary("audit-1", results)
	assert.Equal(t, "audit-1", summary.AuditID)
	assert.Equal(t, "Acme Inc", summary.CompanyName)
	assert.Equal(t, results.OverallScore, summary.OverallScore)
	assert.Equal(t, results.TotalMonthlyOpportunity, summary.TotalMonthlyOpportunity)
	assert.Equal(t, "USD", summary.Currency)
	require.Len(t, summary.TopOpportunityStages, len(results.TopOpportunities))
	for i, opp := range results.TopOpportunities {
		assert.Equal(t, opp.Stage, summary.TopOpportunityStages[i])
	}
}
