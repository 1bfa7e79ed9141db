// internal/calculators/conversion.go
package calculators

import (
	"fmt"
	"math"
)

// SignificanceLevel is the two-sided alpha an A/B test is judged at.
const SignificanceLevel = 0.05

type ABTestInput struct {
	ControlVisitors    float64 `json:"controlVisitors"`
	ControlConversions float64 `json:"controlConversions"`
	VariantVisitors    float64 `json:"variantVisitors"`
	VariantConversions float64 `json:"variantConversions"`
}

type ABTestResult struct {
	ControlRate float64 `json:"controlRate"`
	VariantRate float64 `json:"variantRate"`
	Uplift      float64 `json:"uplift"`
	ZScore      float64 `json:"zScore"`
	PValue      float64 `json:"pValue"`
	Confidence  float64 `json:"confidence"`
	Significant bool    `json:"significant"`
}

// ABTest compares two conversion rates with a pooled two-proportion z-test.
// Rates, uplift and confidence are percentages.
func ABTest(in ABTestInput) (ABTestResult, error) {
	if err := requireNonNegative(
		field{"controlVisitors", in.ControlVisitors},
		field{"controlConversions", in.ControlConversions},
		field{"variantVisitors", in.VariantVisitors},
		field{"variantConversions", in.VariantConversions},
	); err != nil {
		return ABTestResult{}, err
	}
	if in.ControlConversions > in.ControlVisitors {
		return ABTestResult{}, fmt.Errorf("%w: controlConversions exceeds controlVisitors", ErrInvalidInput)
	}
	if in.VariantConversions > in.VariantVisitors {
		return ABTestResult{}, fmt.Errorf("%w: variantConversions exceeds variantVisitors", ErrInvalidInput)
	}

	p1 := ratio(in.ControlConversions, in.ControlVisitors)
	p2 := ratio(in.VariantConversions, in.VariantVisitors)

	z := 0.0
	if in.ControlVisitors > 0 && in.VariantVisitors > 0 {
		pooled := (in.ControlConversions + in.VariantConversions) / (in.ControlVisitors + in.VariantVisitors)
		se := math.Sqrt(pooled * (1 - pooled) * (1/in.ControlVisitors + 1/in.VariantVisitors))
		z = ratio(p2-p1, se)
	}
	pValue := math.Erfc(math.Abs(z) / math.Sqrt2)

	return ABTestResult{
		ControlRate: round2(p1 * 100),
		VariantRate: round2(p2 * 100),
		Uplift:      round2(percent(p2-p1, p1)),
		ZScore:      round2(z),
		PValue:      math.Round(pValue*10000) / 10000,
		Confidence:  round2((1 - pValue) * 100),
		Significant: pValue < SignificanceLevel,
	}, nil
}

type AverageOrderValueInput struct {
	Revenue float64 `json:"revenue"`
	Orders  float64 `json:"orders"`
}

type AverageOrderValueResult struct {
	AverageOrderValue float64 `json:"averageOrderValue"`
}

func AverageOrderValue(in AverageOrderValueInput) (AverageOrderValueResult, error) {
	if err := requireNonNegative(field{"revenue", in.Revenue}, field{"orders", in.Orders}); err != nil {
		return AverageOrderValueResult{}, err
	}
	return AverageOrderValueResult{AverageOrderValue: round2(ratio(in.Revenue, in.Orders))}, nil
}

// DefaultRecoveryRate is the share of abandoned revenue a recovery flow is
// assumed to win back when none is given.
const DefaultRecoveryRate = 10.0

type CartAbandonmentInput struct {
	CartsCreated       float64 `json:"cartsCreated"`
	PurchasesCompleted float64 `json:"purchasesCompleted"`
	AverageCartValue   float64 `json:"averageCartValue"`
	RecoveryRate       float64 `json:"recoveryRate"`
}

type CartAbandonmentResult struct {
	AbandonmentRate    float64 `json:"abandonmentRate"`
	AbandonedCarts     float64 `json:"abandonedCarts"`
	LostRevenue        float64 `json:"lostRevenue"`
	RecoverableRevenue float64 `json:"recoverableRevenue"`
}

func CartAbandonment(in CartAbandonmentInput) (CartAbandonmentResult, error) {
	if err := requireNonNegative(
		field{"cartsCreated", in.CartsCreated},
		field{"purchasesCompleted", in.PurchasesCompleted},
		field{"averageCartValue", in.AverageCartValue},
		field{"recoveryRate", in.RecoveryRate},
	); err != nil {
		return CartAbandonmentResult{}, err
	}
	if in.PurchasesCompleted > in.CartsCreated {
		return CartAbandonmentResult{}, fmt.Errorf("%w: purchasesCompleted exceeds cartsCreated", ErrInvalidInput)
	}
	if in.RecoveryRate > 100 {
		return CartAbandonmentResult{}, fmt.Errorf("%w: recoveryRate must be at most 100", ErrInvalidInput)
	}

	recovery := in.RecoveryRate
	if recovery == 0 {
		recovery = DefaultRecoveryRate
	}

	abandoned := in.CartsCreated - in.PurchasesCompleted
	lost := abandoned * in.AverageCartValue
	return CartAbandonmentResult{
		AbandonmentRate:    round2(percent(abandoned, in.CartsCreated)),
		AbandonedCarts:     abandoned,
		LostRevenue:        round2(lost),
		RecoverableRevenue: round2(lost * recovery / 100),
	}, nil
}
