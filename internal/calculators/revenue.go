// internal/calculators/revenue.go
package calculators

import "math"

type LTVToCACInput struct {
	AverageOrderValue       float64 `json:"averageOrderValue"`
	PurchaseFrequency       float64 `json:"purchaseFrequency"`
	CustomerLifespan        float64 `json:"customerLifespan"`
	GrossMargin             float64 `json:"grossMargin"`
	CustomerAcquisitionCost float64 `json:"customerAcquisitionCost"`
}

type LTVToCACResult struct {
	LTV           float64 `json:"ltv"`
	Ratio         float64 `json:"ratio"`
	PaybackMonths float64 `json:"paybackMonths"`
	Health        string  `json:"health"`
}

// LTVToCAC prices a customer over their lifespan in months. GrossMargin is a
// percentage; zero means revenue is counted in full.
func LTVToCAC(in LTVToCACInput) (LTVToCACResult, error) {
	if err := requireNonNegative(
		field{"averageOrderValue", in.AverageOrderValue},
		field{"purchaseFrequency", in.PurchaseFrequency},
		field{"customerLifespan", in.CustomerLifespan},
		field{"grossMargin", in.GrossMargin},
		field{"customerAcquisitionCost", in.CustomerAcquisitionCost},
	); err != nil {
		return LTVToCACResult{}, err
	}

	margin := 1.0
	if in.GrossMargin > 0 {
		margin = in.GrossMargin / 100
	}

	ltv := in.AverageOrderValue * in.PurchaseFrequency * in.CustomerLifespan * margin
	r := ratio(ltv, in.CustomerAcquisitionCost)
	monthly := ratio(ltv, in.CustomerLifespan)

	return LTVToCACResult{
		LTV:           round2(ltv),
		Ratio:         round2(r),
		PaybackMonths: round2(ratio(in.CustomerAcquisitionCost, monthly)),
		Health:        ltvHealth(r, in.CustomerAcquisitionCost),
	}, nil
}

func ltvHealth(r, cac float64) string {
	switch {
	case cac == 0:
		return HealthHealthy
	case r < 1:
		return HealthUnprofitable
	case r < 3:
		return HealthNeedsImprovement
	case r <= 5:
		return HealthHealthy
	default:
		return HealthUnderInvesting
	}
}

type MRRGrowthInput struct {
	StartingMRR float64 `json:"startingMrr"`
	EndingMRR   float64 `json:"endingMrr"`
	Months      float64 `json:"months"`
}

type MRRGrowthResult struct {
	AbsoluteGrowth            float64 `json:"absoluteGrowth"`
	GrowthRate                float64 `json:"growthRate"`
	CompoundMonthlyGrowthRate float64 `json:"compoundMonthlyGrowthRate"`
}

func MRRGrowth(in MRRGrowthInput) (MRRGrowthResult, error) {
	if err := requireNonNegative(
		field{"startingMrr", in.StartingMRR},
		field{"endingMrr", in.EndingMRR},
		field{"months", in.Months},
	); err != nil {
		return MRRGrowthResult{}, err
	}

	cmgr := 0.0
	if in.StartingMRR > 0 && in.Months > 0 {
		cmgr = (math.Pow(in.EndingMRR/in.StartingMRR, 1/in.Months) - 1) * 100
	}

	return MRRGrowthResult{
		AbsoluteGrowth:            round2(in.EndingMRR - in.StartingMRR),
		GrowthRate:                round2(percent(in.EndingMRR-in.StartingMRR, in.StartingMRR)),
		CompoundMonthlyGrowthRate: round2(cmgr),
	}, nil
}

type NetRevenueRetentionInput struct {
	StartingMRR float64 `json:"startingMrr"`
	Expansion   float64 `json:"expansion"`
	Contraction float64 `json:"contraction"`
	Churned     float64 `json:"churned"`
}

type NetRevenueRetentionResult struct {
	NetRevenueRetention   float64 `json:"netRevenueRetention"`
	GrossRevenueRetention float64 `json:"grossRevenueRetention"`
	EndingMRR             float64 `json:"endingMrr"`
}

func NetRevenueRetention(in NetRevenueRetentionInput) (NetRevenueRetentionResult, error) {
	if err := requireNonNegative(
		field{"startingMrr", in.StartingMRR},
		field{"expansion", in.Expansion},
		field{"contraction", in.Contraction},
		field{"churned", in.Churned},
	); err != nil {
		return NetRevenueRetentionResult{}, err
	}

	ending := in.StartingMRR + in.Expansion - in.Contraction - in.Churned
	return NetRevenueRetentionResult{
		NetRevenueRetention:   round2(percent(ending, in.StartingMRR)),
		GrossRevenueRetention: round2(percent(in.StartingMRR-in.Contraction-in.Churned, in.StartingMRR)),
		EndingMRR:             round2(ending),
	}, nil
}
