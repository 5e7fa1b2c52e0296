package core

import "github.com/shopspring/decimal"

// Summary is the complete observable snapshot of a month: every stored
// field plus every derived figure. Display layers and the JSON API
// serialize this; the derived values are computed here and never persisted.
type Summary struct {
	MonthKey             string            `json:"month_name"`
	Rent                 decimal.Decimal   `json:"rent"`
	Heating              decimal.Decimal   `json:"heating"`
	Electric             decimal.Decimal   `json:"electric"`
	Water                decimal.Decimal   `json:"water"`
	Internet             decimal.Decimal   `json:"internet"`
	TotalUtilities       decimal.Decimal   `json:"total_utilities"`
	UtilitiesShare       decimal.Decimal   `json:"utilities_per_roommate"`
	TotalHousing         decimal.Decimal   `json:"total_housing"`
	AdditionalCosts      []AdditionalCost  `json:"additional_costs"`
	TotalAdditionalCosts decimal.Decimal   `json:"total_additional_costs"`
	TotalMonthDue        decimal.Decimal   `json:"total_month_due"`
	Payments             []decimal.Decimal `json:"payments"`
	TotalPaid            decimal.Decimal   `json:"total_paid"`
	AmountOwed           decimal.Decimal   `json:"amount_owed"`
}

// Summary captures the month's current state. The cost and payment slices
// are copies; mutating them does not touch the month.
func (m *Month) Summary() Summary {
	costs := make([]AdditionalCost, len(m.AdditionalCosts))
	copy(costs, m.AdditionalCosts)
	payments := make([]decimal.Decimal, len(m.Payments))
	copy(payments, m.Payments)
	return Summary{
		MonthKey:             m.MonthKey,
		Rent:                 m.Rent,
		Heating:              m.Heating,
		Electric:             m.Electric,
		Water:                m.Water,
		Internet:             m.Internet,
		TotalUtilities:       m.TotalUtilities(),
		UtilitiesShare:       m.UtilitiesShare(),
		TotalHousing:         m.TotalHousing(),
		AdditionalCosts:      costs,
		TotalAdditionalCosts: m.TotalAdditionalCosts(),
		TotalMonthDue:        m.TotalMonthDue(),
		Payments:             payments,
		TotalPaid:            m.TotalPaid(),
		AmountOwed:           m.AmountOwed(),
	}
}
