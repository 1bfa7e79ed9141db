// internal/audit/scorer.go
package audit

// Status colors.
const (
	ColorExcellent        = "#10B981"
	ColorGood             = "#F59E0B"
	ColorNeedsImprovement = "#EF4444"
)

// stageRule holds the fixed benchmark and status cutoffs of a stage.
// Retention's values are offsets from the industry retention rate.
type stageRule struct {
	benchmark   float64
	excellentAt float64
	goodAt      float64
	relative    bool
}

var stageRules = map[Stage]stageRule{
	StageAcquisition: {benchmark: 70, excellentAt: 75, goodAt: 60},
	StageActivation:  {benchmark: 65, excellentAt: 80, goodAt: 65},
	StageNurture:     {benchmark: 60, excellentAt: 70, goodAt: 55},
	StageRetention:   {excellentAt: 10, goodAt: -5, relative: true},
	StageWinBack:     {benchmark: 40, excellentAt: 60, goodAt: 40},
}

// StageBenchmark returns the benchmark a stage is scored against.
func StageBenchmark(stage Stage, industry IndustryBenchmark) float64 {
	rule := stageRules[stage]
	if rule.relative {
		return industry.RetentionRate
	}
	return rule.benchmark
}

// ScoreStages turns the form's ratings into one LifecycleScore per stage, in
// Stages order.
func ScoreStages(form AuditFormData, industry IndustryBenchmark) []LifecycleScore {
	scores := make([]LifecycleScore, 0, len(Stages))
	for _, stage := range Stages {
		scores = append(scores, scoreStage(stage, form.rating(stage), industry))
	}
	return scores
}

func scoreStage(stage Stage, rating int, industry IndustryBenchmark) LifecycleScore {
	rule := stageRules[stage]
	score := rating * 10
	benchmark := StageBenchmark(stage, industry)

	excellentAt, goodAt := rule.excellentAt, rule.goodAt
	if rule.relative {
		excellentAt += benchmark
		goodAt += benchmark
	}

	status := classify(float64(score), excellentAt, goodAt)
	return LifecycleScore{
		Stage:     stage,
		Score:     score,
		Benchmark: benchmark,
		Gap:       gap(benchmark, float64(score)),
		Status:    status,
		Color:     StatusColor(status),
	}
}

func classify(score, excellentAt, goodAt float64) Status {
	switch {
	case score >= excellentAt:
		return StatusExcellent
	case score >= goodAt:
		return StatusGood
	default:
		return StatusNeedsImprovement
	}
}

func gap(benchmark, score float64) float64 {
	if benchmark > score {
		return benchmark - score
	}
	return 0
}

// StatusColor maps a status to its display color.
func StatusColor(status Status) string {
	switch status {
	case StatusExcellent:
		return ColorExcellent
	case StatusGood:
		return ColorGood
	default:
		return ColorNeedsImprovement
	}
}
