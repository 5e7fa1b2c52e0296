package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Error roots for the three failure classes the boundaries care about.
// Specific failures wrap one of these so callers can classify with errors.Is.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrCorruptStore = errors.New("corrupt ledger file")
)

// FixedCostField enumerates the five fixed monthly costs. Field edits
// dispatch over this closed set; there is no by-name reflection.
type FixedCostField string

const (
	FieldRent     FixedCostField = "rent"
	FieldHeating  FixedCostField = "heating"
	FieldElectric FixedCostField = "electric"
	FieldWater    FixedCostField = "water"
	FieldInternet FixedCostField = "internet"
)

// FixedCostFields lists the fields in display order.
func FixedCostFields() []FixedCostField {
	return []FixedCostField{FieldRent, FieldHeating, FieldElectric, FieldWater, FieldInternet}
}

// ParseFixedCostField resolves a raw field name from a flag or URL segment.
func ParseFixedCostField(s string) (FixedCostField, error) {
	switch f := FixedCostField(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldRent, FieldHeating, FieldElectric, FieldWater, FieldInternet:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown fixed cost %q (want rent, heating, electric, water or internet)", ErrValidation, s)
}

// AdditionalCost is an ad-hoc expense entry appended to a month.
type AdditionalCost struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (c AdditionalCost) Validate() error {
	if c.Amount.IsNegative() {
		return fmt.Errorf("%w: cost amount cannot be negative", ErrValidation)
	}
	if strings.TrimSpace(c.Description) == "" {
		return fmt.Errorf("%w: cost description cannot be empty", ErrValidation)
	}
	return nil
}

// Month is the ledger record for one calendar month: the five fixed costs,
// the ordered additional-cost list and the ordered payment list. MonthKey is
// immutable after construction and doubles as the store key. The JSON tags
// define the persisted document layout; derived figures are never stored.
type Month struct {
	MonthKey        string            `json:"month_name"`
	Rent            decimal.Decimal   `json:"rent"`
	Heating         decimal.Decimal   `json:"heating"`
	Electric        decimal.Decimal   `json:"electric"`
	Water           decimal.Decimal   `json:"water"`
	Internet        decimal.Decimal   `json:"internet"`
	AdditionalCosts []AdditionalCost  `json:"additional_costs"`
	Payments        []decimal.Decimal `json:"payments"`
}

var monthKeyRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidateMonthKey checks the canonical YYYY-MM form with a real calendar
// month. Every lookup or construction taking a raw key goes through this;
// the entity itself trusts its key once built.
func ValidateMonthKey(s string) error {
	if !monthKeyRe.MatchString(s) {
		return fmt.Errorf("%w: month key %q must match YYYY-MM", ErrValidation, s)
	}
	return nil
}

// NewMonth builds a month from already-parsed amounts. The month key is
// validated by the caller; fixed costs and cost entries are checked here.
func NewMonth(key string, rent, heating, electric, water, internet decimal.Decimal, costs []AdditionalCost, payments []decimal.Decimal) (*Month, error) {
	fixed := []struct {
		name  FixedCostField
		value decimal.Decimal
	}{
		{FieldRent, rent},
		{FieldHeating, heating},
		{FieldElectric, electric},
		{FieldWater, water},
		{FieldInternet, internet},
	}
	for _, f := range fixed {
		if f.value.IsNegative() {
			return nil, fmt.Errorf("%w: %s cost cannot be negative", ErrValidation, f.name)
		}
	}
	for i, c := range costs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("additional cost %d: %w", i+1, err)
		}
	}
	if costs == nil {
		costs = []AdditionalCost{}
	}
	if payments == nil {
		payments = []decimal.Decimal{}
	}
	return &Month{
		MonthKey:        key,
		Rent:            rent,
		Heating:         heating,
		Electric:        electric,
		Water:           water,
		Internet:        internet,
		AdditionalCosts: costs,
		Payments:        payments,
	}, nil
}
