package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func januaryFixture(t *testing.T) *Month {
	t.Helper()
	m, err := NewMonth("2025-01",
		dec(t, "1200"), dec(t, "80"), dec(t, "70"), dec(t, "40"), dec(t, "60"),
		nil, nil)
	if err != nil {
		t.Fatalf("NewMonth: %v", err)
	}
	return m
}

func TestNewMonthValidation(t *testing.T) {
	cases := []struct {
		name string
		rent string
		ok   bool
	}{
		{"zero rent is allowed", "0", true},
		{"positive rent", "1200", true},
		{"negative by one cent", "-0.01", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMonth("2025-01", dec(t, tc.rent),
				decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, nil, nil)
			if tc.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
			}
		})
	}
}

func TestNewMonthRejectsBadCostEntries(t *testing.T) {
	bad := []AdditionalCost{{Amount: dec(t, "-1"), Description: "x"}}
	if _, err := NewMonth("2025-01", decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, bad, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	bad = []AdditionalCost{{Amount: dec(t, "1"), Description: "  "}}
	if _, err := NewMonth("2025-01", decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, bad, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDerivedTotalsScenario(t *testing.T) {
	m := januaryFixture(t)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"total utilities", m.TotalUtilities(), "250"},
		{"utilities share", m.UtilitiesShare(), "125"},
		{"total housing", m.TotalHousing(), "1325"},
		{"total month due", m.TotalMonthDue(), "1325"},
		{"amount owed", m.AmountOwed(), "1325"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(t, c.want)) {
			t.Fatalf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	if err := m.AddAdditionalCost(dec(t, "45.50"), "parking"); err != nil {
		t.Fatalf("AddAdditionalCost: %v", err)
	}
	if got := m.TotalAdditionalCosts(); !got.Equal(dec(t, "45.50")) {
		t.Fatalf("total additional costs = %s, want 45.50", got)
	}
	if got := m.TotalMonthDue(); !got.Equal(dec(t, "1370.50")) {
		t.Fatalf("total month due = %s, want 1370.50", got)
	}

	if err := m.AddPayment(dec(t, "700.00")); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	if got := m.TotalPaid(); !got.Equal(dec(t, "700.00")) {
		t.Fatalf("total paid = %s, want 700.00", got)
	}
	if got := m.AmountOwed(); !got.Equal(dec(t, "670.50")) {
		t.Fatalf("amount owed = %s, want 670.50", got)
	}
}

func TestTotalsStayConsistent(t *testing.T) {
	m := januaryFixture(t)
	_ = m.AddAdditionalCost(dec(t, "12.34"), "lightbulbs")
	_ = m.AddAdditionalCost(dec(t, "0.99"), "tape")
	_ = m.AddPayment(dec(t, "500"))

	if got, want := m.TotalMonthDue(), m.TotalHousing().Add(m.TotalAdditionalCosts()); !got.Equal(want) {
		t.Fatalf("total due %s != housing+additional %s", got, want)
	}
	if got, want := m.TotalHousing(), m.Rent.Add(m.TotalUtilities().Div(dec(t, "2"))); !got.Equal(want) {
		t.Fatalf("housing %s != rent+utilities/2 %s", got, want)
	}
}

func TestUtilitiesShareKeepsFullPrecision(t *testing.T) {
	m, err := NewMonth("2025-02", decimal.Zero,
		dec(t, "0.01"), decimal.Zero, decimal.Zero, decimal.Zero, nil, nil)
	if err != nil {
		t.Fatalf("NewMonth: %v", err)
	}
	// Half a cent is not re-rounded on the derived figure.
	if got := m.UtilitiesShare(); !got.Equal(dec(t, "0.005")) {
		t.Fatalf("share = %s, want 0.005", got)
	}
}

func TestAddThenDeleteRestoresPriorState(t *testing.T) {
	m := januaryFixture(t)
	_ = m.AddAdditionalCost(dec(t, "10"), "first")
	before := len(m.AdditionalCosts)
	beforeTotal := m.TotalAdditionalCosts()

	if err := m.AddAdditionalCost(dec(t, "45.50"), "parking"); err != nil {
		t.Fatalf("add: %v", err)
	}
	removed, err := m.DeleteAdditionalCost(2)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.Description != "parking" || !removed.Amount.Equal(dec(t, "45.50")) {
		t.Fatalf("removed wrong entry: %+v", removed)
	}
	if len(m.AdditionalCosts) != before {
		t.Fatalf("length = %d, want %d", len(m.AdditionalCosts), before)
	}
	if got := m.TotalAdditionalCosts(); !got.Equal(beforeTotal) {
		t.Fatalf("total = %s, want %s", got, beforeTotal)
	}
}

func TestEditAdditionalCostOnlyTouchesPosition(t *testing.T) {
	m := januaryFixture(t)
	_ = m.AddAdditionalCost(dec(t, "1"), "one")
	_ = m.AddAdditionalCost(dec(t, "2"), "two")
	_ = m.AddAdditionalCost(dec(t, "3"), "three")

	if err := m.EditAdditionalCost(2, dec(t, "20"), "twenty"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if len(m.AdditionalCosts) != 3 {
		t.Fatalf("length changed to %d", len(m.AdditionalCosts))
	}
	if m.AdditionalCosts[0].Description != "one" || m.AdditionalCosts[2].Description != "three" {
		t.Fatalf("neighbors changed: %+v", m.AdditionalCosts)
	}
	if m.AdditionalCosts[1].Description != "twenty" || !m.AdditionalCosts[1].Amount.Equal(dec(t, "20")) {
		t.Fatalf("edit did not apply: %+v", m.AdditionalCosts[1])
	}
}

func TestCostPositionBounds(t *testing.T) {
	m := januaryFixture(t)

	if _, err := m.DeleteAdditionalCost(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete on empty list: expected not-found, got %v", err)
	}
	_ = m.AddAdditionalCost(dec(t, "5"), "only")
	for _, pos := range []int{0, -1, 2} {
		if err := m.EditAdditionalCost(pos, dec(t, "1"), "x"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("edit pos %d: expected not-found, got %v", pos, err)
		}
	}
	// Failed edits must not partially apply.
	if m.AdditionalCosts[0].Description != "only" {
		t.Fatalf("failed edit mutated entry: %+v", m.AdditionalCosts[0])
	}
}

func TestSetFixedCost(t *testing.T) {
	m := januaryFixture(t)

	if err := m.SetFixedCost(FieldHeating, dec(t, "95.25")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !m.Heating.Equal(dec(t, "95.25")) {
		t.Fatalf("heating = %s", m.Heating)
	}

	if err := m.SetFixedCost(FieldRent, dec(t, "-1")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !m.Rent.Equal(dec(t, "1200")) {
		t.Fatalf("rejected set changed rent to %s", m.Rent)
	}

	if err := m.SetFixedCost(FixedCostField("garage"), dec(t, "1")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestAddPaymentRejectsNonPositive(t *testing.T) {
	m := januaryFixture(t)
	for _, amt := range []string{"0", "-5"} {
		if err := m.AddPayment(dec(t, amt)); !errors.Is(err, ErrValidation) {
			t.Fatalf("payment %s: expected validation error, got %v", amt, err)
		}
	}
	if len(m.Payments) != 0 {
		t.Fatalf("rejected payments were recorded: %v", m.Payments)
	}
}

func TestParseFixedCostField(t *testing.T) {
	if f, err := ParseFixedCostField(" Rent "); err != nil || f != FieldRent {
		t.Fatalf("got %q, %v", f, err)
	}
	if _, err := ParseFixedCostField("garage"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSummarySnapshot(t *testing.T) {
	m := januaryFixture(t)
	_ = m.AddAdditionalCost(dec(t, "45.50"), "parking")
	_ = m.AddPayment(dec(t, "700"))

	s := m.Summary()
	if s.MonthKey != "2025-01" {
		t.Fatalf("month key = %q", s.MonthKey)
	}
	if !s.TotalMonthDue.Equal(dec(t, "1370.50")) || !s.AmountOwed.Equal(dec(t, "670.50")) {
		t.Fatalf("derived totals wrong: due=%s owed=%s", s.TotalMonthDue, s.AmountOwed)
	}

	// The snapshot owns its slices.
	s.AdditionalCosts[0].Description = "mutated"
	if m.AdditionalCosts[0].Description != "parking" {
		t.Fatal("summary slice aliases the month")
	}
}
