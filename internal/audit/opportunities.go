// internal/audit/opportunities.go
package audit

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

const (
	MaxRecommendations       = 5
	TopStageCount            = 3
	RecommendationGapMinimum = 10.0

	BestPracticeScore = 85
	OpportunityShare  = 0.20
	StageGainShare    = 0.15

	minFlows            = 5
	strongFlows         = 8
	minSegments         = 5
	strongSegments      = 10
	fallbackStrength    = "Solid foundation in place to build lifecycle marketing on"
	highImpactThreshold = 1000
	midImpactThreshold  = 500
	highEffortGap       = 20
	midEffortGap        = 10
)

const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

var stageRecommendations = map[Stage]string{
	StageAcquisition: "Improve acquisition efficiency with lookalike audiences, referral incentives and a tested first-purchase offer",
	StageActivation:  "Build a welcome series that drives the second purchase within 30 days of the first",
	StageNurture:     "Segment subscribers by engagement and purchase history and send targeted nurture campaigns",
	StageRetention:   "Launch post-purchase flows and a loyalty program to lift repeat purchase rate",
	StageWinBack:     "Set up a win-back flow for customers inactive for 90+ days with escalating incentives",
}

var stageActions = map[Stage][]string{
	StageAcquisition: {
		"Add a pop-up with a first-purchase incentive",
		"Launch a customer referral program",
		"Retarget site visitors with lookalike audiences",
	},
	StageActivation: {
		"Send a 3-part welcome series",
		"Trigger browse and cart abandonment flows",
		"Offer a time-bound second-purchase incentive",
	},
	StageNurture: {
		"Build engagement-based segments",
		"Send educational content tied to purchased products",
		"Introduce product recommendation blocks",
	},
	StageRetention: {
		"Launch a post-purchase thank-you and review flow",
		"Introduce a points-based loyalty program",
		"Add replenishment reminders",
	},
	StageWinBack: {
		"Create a 90-day lapsed customer flow",
		"Test escalating discount offers",
		"Run a sunset policy for unengaged subscribers",
	},
}

var stageOpportunityTitles = map[Stage]string{
	StageAcquisition: "Acquire customers more efficiently",
	StageActivation:  "Convert first-time buyers faster",
	StageNurture:     "Deepen subscriber engagement",
	StageRetention:   "Increase repeat purchases",
	StageWinBack:     "Recover lapsed customers",
}

// RankStagesByGap returns a copy of scores ordered by descending gap. Equal
// gaps keep their input order.
func RankStagesByGap(scores []LifecycleScore) []LifecycleScore {
	ranked := make([]LifecycleScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Gap > ranked[j].Gap
	})
	return ranked
}

func topN(ranked []LifecycleScore, n int) []LifecycleScore {
	if len(ranked) < n {
		return ranked
	}
	return ranked[:n]
}

// Recommendations emits up to three gap-driven stage recommendations followed
// by the infrastructure ones, capped at MaxRecommendations.
func Recommendations(ranked []LifecycleScore, form AuditFormData) []string {
	recs := make([]string, 0, MaxRecommendations+TopStageCount)
	for _, s := range topN(ranked, TopStageCount) {
		if s.Gap > RecommendationGapMinimum {
			recs = append(recs, stageRecommendations[s.Stage])
		}
	}

	if !form.hasEmailPlatform() {
		recs = append(recs, "Adopt a dedicated email and SMS marketing platform to automate lifecycle messaging")
	}
	if form.ActiveFlows < minFlows {
		recs = append(recs, "Expand automated flows to cover welcome, abandonment, post-purchase and win-back journeys")
	}
	if form.SegmentCount < minSegments {
		recs = append(recs, "Create at least 5 behavioral segments such as VIP, at-risk and lapsed customers")
	}
	if form.PersonalizationLevel != PersonalizationAdvanced {
		recs = append(recs, "Upgrade personalization with dynamic product recommendations and predictive send times")
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

// Strengths is never empty.
func Strengths(scores []LifecycleScore, form AuditFormData) []string {
	var out []string
	for _, s := range scores {
		if s.Status == StatusExcellent {
			out = append(out, fmt.Sprintf("Strong %s performance (%d/100 vs %s benchmark)",
				s.Stage, s.Score, formatNumber(s.Benchmark)))
		}
	}
	if form.ActiveFlows >= strongFlows {
		out = append(out, fmt.Sprintf("Comprehensive automation with %d active flows", form.ActiveFlows))
	}
	if form.SegmentCount >= strongSegments {
		out = append(out, fmt.Sprintf("Sophisticated segmentation with %d segments", form.SegmentCount))
	}
	if form.PersonalizationLevel == PersonalizationAdvanced {
		out = append(out, "Advanced personalization capabilities")
	}
	if len(out) == 0 {
		out = []string{fallbackStrength}
	}
	return out
}

func Weaknesses(scores []LifecycleScore, form AuditFormData) []string {
	out := []string{}
	for _, s := range scores {
		if s.Status == StatusNeedsImprovement {
			out = append(out, fmt.Sprintf("%s below benchmark (%d/100 vs %s)",
				s.Stage, s.Score, formatNumber(s.Benchmark)))
		}
	}
	if form.ActiveFlows < minFlows {
		out = append(out, fmt.Sprintf("Limited automation coverage (%d active flows)", form.ActiveFlows))
	}
	if form.SegmentCount < minSegments {
		out = append(out, fmt.Sprintf("Minimal segmentation (%d segments)", form.SegmentCount))
	}
	if !form.hasLoyaltyPlatform() {
		out = append(out, "No loyalty or rewards program in place")
	}
	return out
}

// TopOpportunities sizes the three largest stage gaps against monthly revenue.
func TopOpportunities(ranked []LifecycleScore, monthlyRevenue float64) []Opportunity {
	top := topN(ranked, TopStageCount)
	out := make([]Opportunity, 0, len(top))
	for _, s := range top {
		impact := s.Gap * 100
		gain := math.Round(s.Gap / 100 * monthlyRevenue * StageGainShare)

		actions := make([]string, len(stageActions[s.Stage]))
		copy(actions, stageActions[s.Stage])

		out = append(out, Opportunity{
			Stage:          s.Stage,
			Title:          stageOpportunityTitles[s.Stage],
			Description:    fmt.Sprintf("%s scores %d against a benchmark of %s, a gap of %s points", s.Stage, s.Score, formatNumber(s.Benchmark), formatNumber(s.Gap)),
			Impact:         ImpactTier(impact),
			ImpactScore:    impact,
			Effort:         EffortTier(s.Gap),
			PotentialGain:  gain,
			MonthlyRevenue: gain,
			AnnualRevenue:  gain * 12,
			Actions:        actions,
		})
	}
	return out
}

func ImpactTier(impact float64) string {
	switch {
	case impact > highImpactThreshold:
		return TierHigh
	case impact > midImpactThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func EffortTier(gap float64) string {
	switch {
	case gap > highEffortGap:
		return TierHigh
	case gap > midEffortGap:
		return TierMedium
	default:
		return TierLow
	}
}

// TotalMonthlyOpportunity prices the distance from overall to the
// best-practice score as a share of monthly revenue.
func TotalMonthlyOpportunity(overall int, monthlyRevenue float64) float64 {
	distance := BestPracticeScore - overall
	if distance < 0 {
		distance = 0
	}
	return math.Round(float64(distance) / 100 * monthlyRevenue * OpportunityShare)
}

func sumMonthly(opps []Opportunity) float64 {
	total := 0.0
	for _, o := range opps {
		total += o.MonthlyRevenue
	}
	return total
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
