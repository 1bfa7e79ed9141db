// internal/calculators/retention.go
package calculators

import (
	"fmt"
	"math"
)

// MaxCurveMonths bounds the length of a retention curve.
const MaxCurveMonths = 120

type ChurnPredictionInput struct {
	CustomersStart float64 `json:"customersStart"`
	CustomersLost  float64 `json:"customersLost"`
}

type ChurnPredictionResult struct {
	ChurnRate              float64 `json:"churnRate"`
	PredictedLostNextMonth float64 `json:"predictedLostNextMonth"`
	ExpectedLifetimeMonths float64 `json:"expectedLifetimeMonths"`
	Risk                   string  `json:"risk"`
}

// ChurnPrediction projects one more month at the observed monthly churn rate.
func ChurnPrediction(in ChurnPredictionInput) (ChurnPredictionResult, error) {
	if err := requireNonNegative(
		field{"customersStart", in.CustomersStart},
		field{"customersLost", in.CustomersLost},
	); err != nil {
		return ChurnPredictionResult{}, err
	}
	if in.CustomersLost > in.CustomersStart {
		return ChurnPredictionResult{}, fmt.Errorf("%w: customersLost exceeds customersStart", ErrInvalidInput)
	}

	rate := ratio(in.CustomersLost, in.CustomersStart)
	return ChurnPredictionResult{
		ChurnRate:              round2(rate * 100),
		PredictedLostNextMonth: math.Round((in.CustomersStart - in.CustomersLost) * rate),
		ExpectedLifetimeMonths: round2(ratio(1, rate)),
		Risk:                   churnRisk(rate * 100),
	}, nil
}

func churnRisk(ratePct float64) string {
	switch {
	case ratePct > 10:
		return BandHigh
	case ratePct > 5:
		return BandMedium
	default:
		return BandLow
	}
}

type RetentionCurveInput struct {
	StartingCustomers float64 `json:"startingCustomers"`
	MonthlyChurnRate  float64 `json:"monthlyChurnRate"`
	Months            float64 `json:"months"`
}

type RetentionPoint struct {
	Month         int     `json:"month"`
	Customers     float64 `json:"customers"`
	RetentionRate float64 `json:"retentionRate"`
}

type RetentionCurveResult struct {
	Points []RetentionPoint `json:"points"`
}

// RetentionCurve decays the starting cohort geometrically for months 0..N.
func RetentionCurve(in RetentionCurveInput) (RetentionCurveResult, error) {
	if err := requireNonNegative(
		field{"startingCustomers", in.StartingCustomers},
		field{"monthlyChurnRate", in.MonthlyChurnRate},
		field{"months", in.Months},
	); err != nil {
		return RetentionCurveResult{}, err
	}
	if in.MonthlyChurnRate > 100 {
		return RetentionCurveResult{}, fmt.Errorf("%w: monthlyChurnRate must be at most 100", ErrInvalidInput)
	}
	if in.Months > MaxCurveMonths || in.Months != math.Trunc(in.Months) {
		return RetentionCurveResult{}, fmt.Errorf("%w: months must be a whole number up to %d", ErrInvalidInput, MaxCurveMonths)
	}

	keep := 1 - in.MonthlyChurnRate/100
	months := int(in.Months)
	points := make([]RetentionPoint, 0, months+1)
	for m := 0; m <= months; m++ {
		share := math.Pow(keep, float64(m))
		points = append(points, RetentionPoint{
			Month:         m,
			Customers:     math.Round(in.StartingCustomers * share),
			RetentionRate: round2(share * 100),
		})
	}
	return RetentionCurveResult{Points: points}, nil
}
