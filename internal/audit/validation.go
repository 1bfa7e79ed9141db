// internal/audit/validation.go
package audit

import (
	"fmt"
	"math"
	"strings"

	"lifecycle-audit-workers/internal/common/validation"
)

const (
	MinRating = 1
	MaxRating = 10
)

var personalizationLevels = []string{
	PersonalizationNone,
	PersonalizationBasic,
	PersonalizationIntermediate,
	PersonalizationAdvanced,
}

// ValidationError lists every field of a form that cannot be scored.
type ValidationError struct {
	Errors []validation.ValidationError `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "audit input invalid: " + strings.Join(msgs, "; ")
}

// Fields returns the names of the offending fields.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe.Field
	}
	return out
}

// Validate checks a form after defaults have been applied. It returns nil or
// a *ValidationError.
func Validate(form AuditFormData) error {
	var errs []validation.ValidationError

	ratings := []struct {
		field string
		value int
	}{
		{"acquisition", form.Acquisition},
		{"activation", form.Activation},
		{"nurture", form.Nurture},
		{"retention", form.Retention},
		{"winback", form.Winback},
	}
	for _, r := range ratings {
		if r.value < MinRating || r.value > MaxRating {
			errs = append(errs, validation.ValidationError{
				Field:   r.field,
				Message: fmt.Sprintf("rating must be between %d and %d, got %d", MinRating, MaxRating, r.value),
				Code:    "RATING_OUT_OF_RANGE",
			})
		}
	}

	amounts := []struct {
		field string
		value float64
	}{
		{"averageOrderValue", form.AverageOrderValue},
		{"purchaseFrequency", form.PurchaseFrequency},
		{"customerLifespan", form.CustomerLifespan},
		{"customerAcquisitionCost", form.CustomerAcquisitionCost},
		{"monthlyRevenue", form.MonthlyRevenue},
	}
	for _, a := range amounts {
		switch {
		case math.IsNaN(a.value) || math.IsInf(a.value, 0):
			errs = append(errs, validation.ValidationError{
				Field:   a.field,
				Message: "value must be a finite number",
				Code:    "NOT_FINITE",
			})
		case a.value < 0:
			errs = append(errs, validation.ValidationError{
				Field:   a.field,
				Message: fmt.Sprintf("value must not be negative, got %g", a.value),
				Code:    "NEGATIVE_VALUE",
			})
		}
	}

	if form.ActiveFlows < 0 {
		errs = append(errs, validation.ValidationError{
			Field:   "activeFlows",
			Message: "value must not be negative",
			Code:    "NEGATIVE_VALUE",
		})
	}
	if form.SegmentCount < 0 {
		errs = append(errs, validation.ValidationError{
			Field:   "segmentCount",
			Message: "value must not be negative",
			Code:    "NEGATIVE_VALUE",
		})
	}

	if !containsString(personalizationLevels, form.PersonalizationLevel) {
		errs = append(errs, validation.ValidationError{
			Field:   "personalizationLevel",
			Message: fmt.Sprintf("value must be one of %v", personalizationLevels),
			Code:    "INVALID_ENUM_VALUE",
		})
	}

	if form.Email != "" && !validation.ValidateEmail(form.Email) {
		errs = append(errs, validation.ValidationError{
			Field:   "email",
			Message: "invalid email format",
			Code:    "PATTERN_MISMATCH",
		})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
