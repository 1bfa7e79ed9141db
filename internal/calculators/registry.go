// internal/calculators/registry.go
package calculators

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Calculator names accepted by Registry.Run.
const (
	NameABTest              = "ab-test"
	NameAverageOrderValue   = "average-order-value"
	NameCartAbandonment     = "cart-abandonment"
	NameLTVToCAC            = "ltv-cac"
	NameMRRGrowth           = "mrr-growth"
	NameChurnPrediction     = "churn-prediction"
	NameRetentionCurve      = "retention-curve"
	NameNetRevenueRetention = "net-revenue-retention"
)

// Runner runs a calculator from named numeric parameters.
type Runner func(params map[string]float64) (interface{}, error)

type Registry struct {
	runners map[string]Runner
}

// NewRegistry returns a registry holding every calculator in this package.
func NewRegistry() *Registry {
	return &Registry{runners: map[string]Runner{
		NameABTest:              runnerFor(ABTest),
		NameAverageOrderValue:   runnerFor(AverageOrderValue),
		NameCartAbandonment:     runnerFor(CartAbandonment),
		NameLTVToCAC:            runnerFor(LTVToCAC),
		NameMRRGrowth:           runnerFor(MRRGrowth),
		NameChurnPrediction:     runnerFor(ChurnPrediction),
		NameRetentionCurve:      runnerFor(RetentionCurve),
		NameNetRevenueRetention: runnerFor(NetRevenueRetention),
	}}
}

// Run executes the named calculator. Unknown names wrap ErrUnknownCalculator;
// unknown or bad parameters wrap ErrInvalidInput.
func (r *Registry) Run(name string, params map[string]float64) (interface{}, error) {
	run, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCalculator, name)
	}
	return run(params)
}

// Has reports whether name is a registered calculator.
func (r *Registry) Has(name string) bool {
	_, ok := r.runners[name]
	return ok
}

// Names returns the registered calculator names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runnerFor decodes params into the calculator's input struct through its
// json tags so parameter names match the wire format.
func runnerFor[In any, Out any](calc func(In) (Out, error)) Runner {
	return func(params map[string]float64) (interface{}, error) {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		var in In
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		out, err := calc(in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
