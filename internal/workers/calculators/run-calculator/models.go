// internal/workers/calculators/run-calculator/models.go
package runcalculator

type Input struct {
	Calculator string             `json:"calculator"`
	Params     map[string]float64 `json:"params"`
}

type Output struct {
	CalculatorResult interface{} `json:"calculatorResult"`
}
