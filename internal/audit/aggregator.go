// internal/audit/aggregator.go
package audit

import "math"

// stageWeightPct is the weight of each stage in the overall score, in percent.
var stageWeightPct = map[Stage]int{
	StageAcquisition: 15,
	StageActivation:  20,
	StageNurture:     25,
	StageRetention:   30,
	StageWinBack:     10,
}

const (
	minPercentile = 5
	maxPercentile = 95
)

// StageWeight returns the weight of stage as a fraction of 1.
func StageWeight(stage Stage) float64 {
	return float64(stageWeightPct[stage]) / 100
}

// Aggregate holds the report-level numbers derived from the stage scores.
type Aggregate struct {
	OverallScore      int
	IndustryBenchmark int
	BenchmarkGap      int
	Percentile        int
	CategoryScores    CategoryScores
}

// OverallScore is the weighted sum of the stage scores rounded half up.
// Stage scores are integers, so the sum is kept in hundredths to round
// exactly.
func OverallScore(scores []LifecycleScore) int {
	hundredths := 0
	for _, s := range scores {
		hundredths += stageWeightPct[s.Stage] * s.Score
	}
	if hundredths < 0 {
		return -((-hundredths + 50) / 100)
	}
	return (hundredths + 50) / 100
}

// WeightedBenchmark is the overall score a business exactly on every stage
// benchmark would get.
func WeightedBenchmark(scores []LifecycleScore) int {
	sum := 0.0
	for _, s := range scores {
		sum += float64(stageWeightPct[s.Stage]) * s.Benchmark
	}
	return int(math.Floor(sum/100 + 0.5))
}

// Percentile clamps the overall score into [5, 95].
func Percentile(overall int) int {
	if overall < minPercentile {
		return minPercentile
	}
	if overall > maxPercentile {
		return maxPercentile
	}
	return overall
}

// CLV is average order value times yearly frequency times lifespan in months.
func CLV(averageOrderValue, purchaseFrequency, lifespanMonths float64) float64 {
	return averageOrderValue * purchaseFrequency * lifespanMonths
}

// LTVToCAC returns clv/cac, or 0 when cac is not positive.
func LTVToCAC(clv, cac float64) float64 {
	if cac <= 0 {
		return 0
	}
	return clv / cac
}

// AggregateScores computes the overall, benchmark, gap, percentile and
// per-category numbers for a set of stage scores.
func AggregateScores(scores []LifecycleScore) Aggregate {
	overall := OverallScore(scores)
	benchmark := WeightedBenchmark(scores)

	agg := Aggregate{
		OverallScore:      overall,
		IndustryBenchmark: benchmark,
		Percentile:        Percentile(overall),
	}
	if benchmark > overall {
		agg.BenchmarkGap = benchmark - overall
	}

	for _, s := range scores {
		switch s.Stage {
		case StageAcquisition:
			agg.CategoryScores.Acquisition = s.Score
		case StageActivation:
			agg.CategoryScores.Activation = s.Score
		case StageNurture:
			agg.CategoryScores.Nurture = s.Score
		case StageRetention:
			agg.CategoryScores.Retention = s.Score
		case StageWinBack:
			agg.CategoryScores.WinBack = s.Score
		}
	}
	return agg
}
