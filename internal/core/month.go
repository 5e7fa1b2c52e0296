package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// TotalUtilities sums heating, electric, water and internet.
func (m *Month) TotalUtilities() decimal.Decimal {
	return m.Heating.Add(m.Electric).Add(m.Water).Add(m.Internet)
}

// UtilitiesShare is one roommate's half of the utilities. The split is a
// fixed two-way division; the quotient keeps full precision and is only
// rounded when displayed.
func (m *Month) UtilitiesShare() decimal.Decimal {
	return m.TotalUtilities().Div(two)
}

// TotalHousing is rent plus the utilities share.
func (m *Month) TotalHousing() decimal.Decimal {
	return m.Rent.Add(m.UtilitiesShare())
}

// TotalAdditionalCosts sums the additional-cost amounts.
func (m *Month) TotalAdditionalCosts() decimal.Decimal {
	total := decimal.Zero
	for _, c := range m.AdditionalCosts {
		total = total.Add(c.Amount)
	}
	return total
}

// TotalPaid sums the recorded payments.
func (m *Month) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range m.Payments {
		total = total.Add(p)
	}
	return total
}

// TotalMonthDue is the housing total plus all additional costs.
func (m *Month) TotalMonthDue() decimal.Decimal {
	return m.TotalHousing().Add(m.TotalAdditionalCosts())
}

// AmountOwed is the total due minus the total paid. Negative means the
// month is overpaid.
func (m *Month) AmountOwed() decimal.Decimal {
	return m.TotalMonthDue().Sub(m.TotalPaid())
}

// FixedCost returns the current value of one fixed cost.
func (m *Month) FixedCost(field FixedCostField) (decimal.Decimal, error) {
	switch field {
	case FieldRent:
		return m.Rent, nil
	case FieldHeating:
		return m.Heating, nil
	case FieldElectric:
		return m.Electric, nil
	case FieldWater:
		return m.Water, nil
	case FieldInternet:
		return m.Internet, nil
	}
	return decimal.Zero, fmt.Errorf("%w: unknown fixed cost %q", ErrValidation, string(field))
}

// SetFixedCost replaces one fixed cost. A negative value is rejected and
// leaves the month untouched.
func (m *Month) SetFixedCost(field FixedCostField, value decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("%w: %s cost cannot be negative", ErrValidation, field)
	}
	switch field {
	case FieldRent:
		m.Rent = value
	case FieldHeating:
		m.Heating = value
	case FieldElectric:
		m.Electric = value
	case FieldWater:
		m.Water = value
	case FieldInternet:
		m.Internet = value
	default:
		return fmt.Errorf("%w: unknown fixed cost %q", ErrValidation, string(field))
	}
	return nil
}

// AddAdditionalCost appends an entry to the end of the list.
func (m *Month) AddAdditionalCost(amount decimal.Decimal, description string) error {
	entry := AdditionalCost{Amount: amount, Description: strings.TrimSpace(description)}
	if err := entry.Validate(); err != nil {
		return err
	}
	m.AdditionalCosts = append(m.AdditionalCosts, entry)
	return nil
}

// costIndex translates a 1-based position into a slice index. Positions are
// not stable identifiers: deleting an entry shifts everything after it.
func (m *Month) costIndex(position int) (int, error) {
	if position < 1 || position > len(m.AdditionalCosts) {
		return 0, fmt.Errorf("%w: no additional cost at position %d", ErrNotFound, position)
	}
	return position - 1, nil
}

// CostAt returns the entry at a 1-based position.
func (m *Month) CostAt(position int) (AdditionalCost, error) {
	idx, err := m.costIndex(position)
	if err != nil {
		return AdditionalCost{}, err
	}
	return m.AdditionalCosts[idx], nil
}

// EditAdditionalCost replaces the entry at a 1-based position in place.
// Every other entry keeps its position.
func (m *Month) EditAdditionalCost(position int, amount decimal.Decimal, description string) error {
	idx, err := m.costIndex(position)
	if err != nil {
		return err
	}
	entry := AdditionalCost{Amount: amount, Description: strings.TrimSpace(description)}
	if err := entry.Validate(); err != nil {
		return err
	}
	m.AdditionalCosts[idx] = entry
	return nil
}

// DeleteAdditionalCost removes the entry at a 1-based position and returns
// it for confirmation. Entries after it shift down by one position.
func (m *Month) DeleteAdditionalCost(position int) (AdditionalCost, error) {
	idx, err := m.costIndex(position)
	if err != nil {
		return AdditionalCost{}, err
	}
	removed := m.AdditionalCosts[idx]
	m.AdditionalCosts = append(m.AdditionalCosts[:idx], m.AdditionalCosts[idx+1:]...)
	return removed, nil
}

// AddPayment records an amount paid toward the month's total due. Zero and
// negative payments are rejected.
func (m *Month) AddPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment must be greater than zero", ErrValidation)
	}
	m.Payments = append(m.Payments, amount)
	return nil
}
