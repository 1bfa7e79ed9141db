// internal/models/audit.go
package models

import (
	"time"

	"lifecycle-audit-workers/internal/audit"
)

const EventAuditGenerated = "audit-generated"

// AuditRecord is a row of the lifecycle_audits table.
type AuditRecord struct {
	ID                      string    `json:"id" db:"id"`
	ProcessInstanceKey      int64     `json:"processInstanceKey" db:"process_instance_key"`
	CompanyName             string    `json:"companyName" db:"company_name"`
	Email                   string    `json:"email" db:"email"`
	Industry                string    `json:"industry" db:"industry"`
	OverallScore            int       `json:"overallScore" db:"overall_score"`
	IndustryBenchmark       int       `json:"industryBenchmark" db:"industry_benchmark"`
	TotalMonthlyOpportunity float64   `json:"totalMonthlyOpportunity" db:"total_monthly_opportunity"`
	Currency                string    `json:"currency" db:"currency"`
	CreatedAt               time.Time `json:"createdAt" db:"created_at"`
}

// AuditSummary is the compact view of a report carried by events, index
// documents and CRM leads.
type AuditSummary struct {
	AuditID                 string               `json:"auditId,omitempty"`
	CompanyName             string               `json:"companyName"`
	Email                   string               `json:"email"`
	Industry                string               `json:"industry"`
	BenchmarkIndustry       string               `json:"benchmarkIndustry"`
	OverallScore            int                  `json:"overallScore"`
	IndustryBenchmark       int                  `json:"industryBenchmark"`
	BenchmarkGap            int                  `json:"benchmarkGap"`
	Percentile              int                  `json:"percentile"`
	CategoryScores          audit.CategoryScores `json:"categoryScores"`
	CLV                     float64              `json:"clv"`
	LTVCACRatio             float64              `json:"ltvCacRatio"`
	MonthlyRevenue          float64              `json:"monthlyRevenue"`
	TotalMonthlyOpportunity float64              `json:"totalMonthlyOpportunity"`
	TotalAnnualOpportunity  float64              `json:"totalAnnualOpportunity"`
	TopOpportunityStages    []audit.Stage        `json:"topOpportunityStages"`
	Currency                string               `json:"currency"`
}

func NewAuditSummary(auditID string, results *audit.AuditResults) AuditSummary {
	stages := make([]audit.Stage, 0, len(results.TopOpportunities))
	for _, opp := range results.TopOpportunities {
		stages = append(stages, opp.Stage)
	}
	return AuditSummary{
		AuditID:                 auditID,
		CompanyName:             results.LeadData.CompanyName,
		Email:                   results.LeadData.Email,
		Industry:                results.LeadData.Industry,
		BenchmarkIndustry:       results.LeadData.BenchmarkIndustry,
		OverallScore:            results.OverallScore,
		IndustryBenchmark:       results.IndustryBenchmark,
		BenchmarkGap:            results.BenchmarkGap,
		Percentile:              results.Percentile,
		CategoryScores:          results.CategoryScores,
		CLV:                     results.CLV,
		LTVCACRatio:             results.LTVCACRatio,
		MonthlyRevenue:          results.LeadData.MonthlyRevenue,
		TotalMonthlyOpportunity: results.TotalMonthlyOpportunity,
		TotalAnnualOpportunity:  results.TotalAnnualOpportunity,
		TopOpportunityStages:    stages,
		Currency:                results.Currency,
	}
}

// AuditEvent is published once per generated report.
type AuditEvent struct {
	EventType  string       `json:"eventType"`
	OccurredAt time.Time    `json:"occurredAt"`
	Audit      AuditSummary `json:"audit"`
}

// AuditDocument is the Elasticsearch representation of a report.
type AuditDocument struct {
	AuditSummary
	Strengths   []string  `json:"strengths"`
	Weaknesses  []string  `json:"weaknesses"`
	GeneratedAt time.Time `json:"generatedAt"`
}
