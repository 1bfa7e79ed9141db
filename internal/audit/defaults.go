// internal/audit/defaults.go
package audit

import "strings"

// AuditDefaults collects every fallback the engine applies to missing form
// fields. A field counts as missing when it holds its zero value.
type AuditDefaults struct {
	Rating                  int     `json:"rating" mapstructure:"rating"`
	AverageOrderValue       float64 `json:"averageOrderValue" mapstructure:"average_order_value"`
	PurchaseFrequency       float64 `json:"purchaseFrequency" mapstructure:"purchase_frequency"`
	CustomerLifespan        float64 `json:"customerLifespan" mapstructure:"customer_lifespan"`
	CustomerAcquisitionCost float64 `json:"customerAcquisitionCost" mapstructure:"customer_acquisition_cost"`
	MonthlyRevenue          float64 `json:"monthlyRevenue" mapstructure:"monthly_revenue"`
	Industry                string  `json:"industry" mapstructure:"industry"`
	PersonalizationLevel    string  `json:"personalizationLevel" mapstructure:"personalization_level"`
	Currency                string  `json:"currency" mapstructure:"currency"`
}

// DefaultAuditDefaults returns the stock fallbacks.
func DefaultAuditDefaults() AuditDefaults {
	return AuditDefaults{
		Rating:                  5,
		AverageOrderValue:       1500,
		PurchaseFrequency:       2.5,
		CustomerLifespan:        24,
		CustomerAcquisitionCost: 800,
		MonthlyRevenue:          500000,
		Industry:                OtherIndustry,
		PersonalizationLevel:    PersonalizationNone,
		Currency:                "USD",
	}
}

// WithOverrides returns a copy of d with every non-zero field of o applied.
func (d AuditDefaults) WithOverrides(o AuditDefaults) AuditDefaults {
	if o.Rating != 0 {
		d.Rating = o.Rating
	}
	if o.AverageOrderValue != 0 {
		d.AverageOrderValue = o.AverageOrderValue
	}
	if o.PurchaseFrequency != 0 {
		d.PurchaseFrequency = o.PurchaseFrequency
	}
	if o.CustomerLifespan != 0 {
		d.CustomerLifespan = o.CustomerLifespan
	}
	if o.CustomerAcquisitionCost != 0 {
		d.CustomerAcquisitionCost = o.CustomerAcquisitionCost
	}
	if o.MonthlyRevenue != 0 {
		d.MonthlyRevenue = o.MonthlyRevenue
	}
	if o.Industry != "" {
		d.Industry = o.Industry
	}
	if o.PersonalizationLevel != "" {
		d.PersonalizationLevel = o.PersonalizationLevel
	}
	if o.Currency != "" {
		d.Currency = o.Currency
	}
	return d
}

// Apply fills the missing fields of form.
func (d AuditDefaults) Apply(form AuditFormData) AuditFormData {
	out := form
	out.CompanyName = strings.TrimSpace(out.CompanyName)
	out.Email = strings.TrimSpace(out.Email)
	out.Industry = strings.TrimSpace(out.Industry)
	if out.Industry == "" {
		out.Industry = d.Industry
	}

	for _, r := range []*int{&out.Acquisition, &out.Activation, &out.Nurture, &out.Retention, &out.Winback} {
		if *r == 0 {
			*r = d.Rating
		}
	}

	if out.AverageOrderValue == 0 {
		out.AverageOrderValue = d.AverageOrderValue
	}
	if out.PurchaseFrequency == 0 {
		out.PurchaseFrequency = d.PurchaseFrequency
	}
	if out.CustomerLifespan == 0 {
		out.CustomerLifespan = d.CustomerLifespan
	}
	if out.CustomerAcquisitionCost == 0 {
		out.CustomerAcquisitionCost = d.CustomerAcquisitionCost
	}
	if out.MonthlyRevenue == 0 {
		out.MonthlyRevenue = d.MonthlyRevenue
	}

	out.PersonalizationLevel = strings.ToLower(strings.TrimSpace(out.PersonalizationLevel))
	if out.PersonalizationLevel == "" {
		out.PersonalizationLevel = d.PersonalizationLevel
	}
	return out
}

// isPresent treats "", "none" and "no" as an absent platform.
func isPresent(platform string) bool {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "", "none", "no":
		return false
	}
	return true
}
