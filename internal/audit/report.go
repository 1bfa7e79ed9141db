// internal/audit/report.go
package audit

// Engine generates audit reports with a fixed set of defaults. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	defaults AuditDefaults
}

func NewEngine(defaults AuditDefaults) *Engine {
	return &Engine{defaults: DefaultAuditDefaults().WithOverrides(defaults)}
}

// Defaults returns the fallbacks the engine applies.
func (e *Engine) Defaults() AuditDefaults {
	return e.defaults
}

// Normalize applies the engine defaults and validates the result.
func (e *Engine) Normalize(form AuditFormData) (AuditFormData, error) {
	normalized := e.defaults.Apply(form)
	if err := Validate(normalized); err != nil {
		return AuditFormData{}, err
	}
	return normalized, nil
}

// Generate scores form and assembles the report. An empty currency falls back
// to the configured default. The only error returned is *ValidationError.
func (e *Engine) Generate(form AuditFormData, currency string) (*AuditResults, error) {
	normalized, err := e.Normalize(form)
	if err != nil {
		return nil, err
	}

	benchmark := LookupBenchmark(normalized.Industry)
	scores := ScoreStages(normalized, benchmark)
	agg := AggregateScores(scores)
	ranked := RankStagesByGap(scores)

	clv := CLV(normalized.AverageOrderValue, normalized.PurchaseFrequency, normalized.CustomerLifespan)
	opportunities := TopOpportunities(ranked, normalized.MonthlyRevenue)
	totalMonthly := TotalMonthlyOpportunity(agg.OverallScore, normalized.MonthlyRevenue)

	if currency == "" {
		currency = e.defaults.Currency
	}

	return &AuditResults{
		OverallScore:      agg.OverallScore,
		IndustryBenchmark: agg.IndustryBenchmark,
		BenchmarkGap:      agg.BenchmarkGap,
		Percentile:        agg.Percentile,
		CategoryScores:    agg.CategoryScores,
		LifecycleScores:   scores,

		CLV:         clv,
		LTVCACRatio: LTVToCAC(clv, normalized.CustomerAcquisitionCost),

		Recommendations:  Recommendations(ranked, normalized),
		Strengths:        Strengths(scores, normalized),
		Weaknesses:       Weaknesses(scores, normalized),
		TopOpportunities: opportunities,

		TotalMonthlyOpportunity:    totalMonthly,
		TotalAnnualOpportunity:     totalMonthly * 12,
		TopOpportunitiesMonthlySum: sumMonthly(opportunities),

		Currency: currency,
		LeadData: LeadData{
			CompanyName:       normalized.CompanyName,
			Email:             normalized.Email,
			Industry:          normalized.Industry,
			BenchmarkIndustry: benchmark.Industry,
			MonthlyRevenue:    normalized.MonthlyRevenue,
		},
	}, nil
}

var defaultEngine = NewEngine(DefaultAuditDefaults())

// GenerateProfessionalAudit runs the engine with the stock defaults.
func GenerateProfessionalAudit(form AuditFormData, currency string) (*AuditResults, error) {
	return defaultEngine.Generate(form, currency)
}
