// internal/calculators/calculators.go
package calculators

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidInput      = errors.New("CALCULATOR_INPUT_INVALID")
	ErrUnknownCalculator = errors.New("CALCULATOR_NOT_FOUND")
)

// Risk and health bands shared by the calculators.
const (
	BandLow    = "low"
	BandMedium = "medium"
	BandHigh   = "high"

	HealthUnprofitable     = "unprofitable"
	HealthNeedsImprovement = "needs-improvement"
	HealthHealthy          = "healthy"
	HealthUnderInvesting   = "under-investing"
)

type field struct {
	name  string
	value float64
}

// requireNonNegative rejects the first negative or non-finite value.
func requireNonNegative(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidInput, f.name, f.value)
		}
	}
	return nil
}

// ratio returns num/den, or 0 when den is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percent(num, den float64) float64 {
	return ratio(num, den) * 100
}

// round2 rounds to two decimals for display values.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
