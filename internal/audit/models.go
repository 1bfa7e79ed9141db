// internal/audit/models.go
package audit

// Stage is one of the five lifecycle stages an audit scores.
type Stage string

const (
	StageAcquisition Stage = "Acquisition"
	StageActivation  Stage = "Activation"
	StageNurture     Stage = "Nurture"
	StageRetention   Stage = "Retention"
	StageWinBack     Stage = "Win-back"
)

// Stages lists every lifecycle stage in report order.
var Stages = []Stage{
	StageAcquisition,
	StageActivation,
	StageNurture,
	StageRetention,
	StageWinBack,
}

type Status string

const (
	StatusExcellent        Status = "excellent"
	StatusGood             Status = "good"
	StatusNeedsImprovement Status = "needs-improvement"
)

// Personalization levels accepted on the form.
const (
	PersonalizationNone         = "none"
	PersonalizationBasic        = "basic"
	PersonalizationIntermediate = "intermediate"
	PersonalizationAdvanced     = "advanced"
)

// AuditFormData is the lead's self-reported input. Zero values are replaced
// by the engine's AuditDefaults before scoring.
type AuditFormData struct {
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	Email       string `json:"email"`

	Acquisition int `json:"acquisition"`
	Activation  int `json:"activation"`
	Nurture     int `json:"nurture"`
	Retention   int `json:"retention"`
	Winback     int `json:"winback"`

	AverageOrderValue       float64 `json:"averageOrderValue"`
	PurchaseFrequency       float64 `json:"purchaseFrequency"` // orders per year
	CustomerLifespan        float64 `json:"customerLifespan"`  // months
	CustomerAcquisitionCost float64 `json:"customerAcquisitionCost"`
	MonthlyRevenue          float64 `json:"monthlyRevenue"`

	EmailPlatform        string `json:"emailPlatform,omitempty"`
	ActiveFlows          int    `json:"activeFlows,omitempty"`
	SegmentCount         int    `json:"segmentCount,omitempty"`
	PersonalizationLevel string `json:"personalizationLevel,omitempty"`
	LoyaltyPlatform      string `json:"loyaltyPlatform,omitempty"`
}

func (f AuditFormData) rating(stage Stage) int {
	switch stage {
	case StageAcquisition:
		return f.Acquisition
	case StageActivation:
		return f.Activation
	case StageNurture:
		return f.Nurture
	case StageRetention:
		return f.Retention
	case StageWinBack:
		return f.Winback
	}
	return 0
}

func (f AuditFormData) hasEmailPlatform() bool {
	return isPresent(f.EmailPlatform)
}

func (f AuditFormData) hasLoyaltyPlatform() bool {
	return isPresent(f.LoyaltyPlatform)
}

// LifecycleScore is the scored result for a single stage.
type LifecycleScore struct {
	Stage     Stage   `json:"stage"`
	Score     int     `json:"score"`
	Benchmark float64 `json:"benchmark"`
	Gap       float64 `json:"gap"`
	Status    Status  `json:"status"`
	Color     string  `json:"color"`
}

type CategoryScores struct {
	Acquisition int `json:"acquisition"`
	Activation  int `json:"activation"`
	Nurture     int `json:"nurture"`
	Retention   int `json:"retention"`
	WinBack     int `json:"winback"`
}

// Opportunity is a revenue estimate for closing one stage's gap.
type Opportunity struct {
	Stage          Stage    `json:"stage"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Impact         string   `json:"impact"`
	ImpactScore    float64  `json:"impactScore"`
	Effort         string   `json:"effort"`
	PotentialGain  float64  `json:"potentialGain"`
	MonthlyRevenue float64  `json:"monthlyRevenue"`
	AnnualRevenue  float64  `json:"annualRevenue"`
	Actions        []string `json:"actions"`
}

// LeadData echoes the identifying part of the form back to consumers.
type LeadData struct {
	CompanyName       string  `json:"companyName"`
	Email             string  `json:"email"`
	Industry          string  `json:"industry"`
	BenchmarkIndustry string  `json:"benchmarkIndustry"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
}

// AuditResults is the assembled report.
//
// Percentile is the overall score clamped to [5, 95]. It is a normalized
// score, not a position in a reference distribution.
//
// TotalMonthlyOpportunity measures the distance to a best-practice score and
// is computed independently of TopOpportunities, so it does not equal
// TopOpportunitiesMonthlySum.
type AuditResults struct {
	OverallScore      int              `json:"overallScore"`
	IndustryBenchmark int              `json:"industryBenchmark"`
	BenchmarkGap      int              `json:"benchmarkGap"`
	Percentile        int              `json:"percentile"`
	CategoryScores    CategoryScores   `json:"categoryScores"`
	LifecycleScores   []LifecycleScore `json:"lifecycleScores"`

	CLV         float64 `json:"clv"`
	LTVCACRatio float64 `json:"ltvCacRatio"`

	Recommendations  []string      `json:"recommendations"`
	Strengths        []string      `json:"strengths"`
	Weaknesses       []string      `json:"weaknesses"`
	TopOpportunities []Opportunity `json:"topOpportunities"`

	TotalMonthlyOpportunity    float64 `json:"totalMonthlyOpportunity"`
	TotalAnnualOpportunity     float64 `json:"totalAnnualOpportunity"`
	TopOpportunitiesMonthlySum float64 `json:"topOpportunitiesMonthlySum"`

	Currency string   `json:"currency"`
	LeadData LeadData `json:"leadData"`
}

// Score returns the lifecycle score for stage.
func (r *AuditResults) Score(stage Stage) (LifecycleScore, bool) {
	for _, s := range r.LifecycleScores {
		if s.Stage == stage {
			return s, true
		}
	}
	return LifecycleScore{}, false
}
