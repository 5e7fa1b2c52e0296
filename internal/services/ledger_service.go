// Package services orchestrates ledger operations: load the store, apply
// one mutation or read, save if mutated, then emit a change event. Every
// entry point (CLI flags, console commands, HTTP routes) goes through here
// so the semantics cannot drift between surfaces.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"housetab/internal/amqp"
	"housetab/internal/core"
)

// Repository loads and saves the whole ledger. The flat JSON document and
// the in-memory store both satisfy it.
type Repository interface {
	Load(ctx context.Context) (core.Store, error)
	Save(ctx context.Context, store core.Store) error
}

// EventPublisher pushes month change events for the mirror worker.
type EventPublisher interface {
	PublishMonthEvent(ctx context.Context, monthKey, op string) error
}

// FixedCosts carries the raw fixed-cost inputs for month creation. Values
// are parsed and rounded by the service, so callers can hand through flag
// or request strings untouched.
type FixedCosts struct {
	Rent     string
	Heating  string
	Electric string
	Water    string
	Internet string
}

// MonthTotal pairs a month key with its total due, for listings.
type MonthTotal struct {
	MonthKey string          `json:"month"`
	TotalDue decimal.Decimal `json:"total"`
}

type LedgerService struct {
	repo   Repository
	events EventPublisher // nil disables event publishing
}

func NewLedgerService(repo Repository, events EventPublisher) *LedgerService {
	return &LedgerService{repo: repo, events: events}
}

// CreateMonth builds a new month from raw inputs and persists it. Creating
// an existing month fails validation, matching the web API contract.
func (s *LedgerService) CreateMonth(ctx context.Context, monthKey string, costs FixedCosts) (core.Summary, error) {
	if err := core.ValidateMonthKey(monthKey); err != nil {
		return core.Summary{}, err
	}

	parsed := make([]decimal.Decimal, 5)
	for i, in := range []struct {
		field core.FixedCostField
		raw   string
	}{
		{core.FieldRent, costs.Rent},
		{core.FieldHeating, costs.Heating},
		{core.FieldElectric, costs.Electric},
		{core.FieldWater, costs.Water},
		{core.FieldInternet, costs.Internet},
	} {
		d, err := core.ParseAmount(in.raw)
		if err != nil {
			return core.Summary{}, fmt.Errorf("%s: %w", in.field, err)
		}
		parsed[i] = d
	}

	store, err := s.repo.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	if store.Has(monthKey) {
		return core.Summary{}, fmt.Errorf("%w: month %s already exists", core.ErrValidation, monthKey)
	}

	m, err := core.NewMonth(monthKey, parsed[0], parsed[1], parsed[2], parsed[3], parsed[4], nil, nil)
	if err != nil {
		return core.Summary{}, err
	}
	store.Put(m)

	if err := s.repo.Save(ctx, store); err != nil {
		return core.Summary{}, err
	}
	s.publish(ctx, monthKey, amqp.OpCreated)
	return m.Summary(), nil
}

// GetMonth returns the summary snapshot for one month.
func (s *LedgerService) GetMonth(ctx context.Context, monthKey string) (core.Summary, error) {
	if err := core.ValidateMonthKey(monthKey); err != nil {
		return core.Summary{}, err
	}
	store, err := s.repo.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	m, err := store.Get(monthKey)
	if err != nil {
		return core.Summary{}, err
	}
	return m.Summary(), nil
}

// ListMonths returns every month with its total due, newest first.
func (s *LedgerService) ListMonths(ctx context.Context) ([]MonthTotal, error) {
	store, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	keys := store.Keys()
	totals := make([]MonthTotal, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		m := store[keys[i]]
		totals = append(totals, MonthTotal{MonthKey: m.MonthKey, TotalDue: m.TotalMonthDue()})
	}
	return totals, nil
}

// DeleteMonth removes a month from the ledger.
func (s *LedgerService) DeleteMonth(ctx context.Context, monthKey string) error {
	if err := core.ValidateMonthKey(monthKey); err != nil {
		return err
	}
	store, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if err := store.Delete(monthKey); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, store); err != nil {
		return err
	}
	s.publish(ctx, monthKey, amqp.OpDeleted)
	return nil
}

// SetFixedCost replaces one of the five fixed costs.
func (s *LedgerService) SetFixedCost(ctx context.Context, monthKey, field, amount string) (core.Summary, error) {
	if err := core.ValidateMonthKey(monthKey); err != nil {
		return core.Summary{}, err
	}
	f, err := core.ParseFixedCostField(field)
	if err != nil {
		return core.Summary{}, err
	}
	value, err := core.ParseAmount(amount)
	if err != nil {
		return core.Summary{}, fmt.Errorf("%s: %w", f, err)
	}

	return s.mutateMonth(ctx, monthKey, func(m *core.Month) error {
		return m.SetFixedCost(f, value)
	})
}

// AddCost appends an additional cost to the month.
func (s *LedgerService) AddCost(ctx context.Context, monthKey, amount, description string) (core.Summary, error) {
	if err := core.ValidateMonthKey(monthKey); err != nil {
		return core.Summary{}, err
	}
	value, err := core.ParseAmount(amount)
	if err != nil {
		return core.Summary{}, err
	}
	return s.mutateMonth(ctx, monthKey, func(m *core.Month) error {
		return m.AddAdditionalCost(value, description)
	})
}

// EditCost replaces the additional cost at a 1-based position. An unknown
// position is reported before the replacement values are parsed.
func (s *LedgerService) EditCost(ctx context.Context, monthKey string, position int, amount, description string) (core.Summary, error) {
	if err := core.ValidateMonthKey(monthKey); err != nil {
		return core.Summary{}, err
	}
	return s.mutateMonth(ctx, monthKey, func(m *core.Month) error {
		if _, err := m.CostAt(position); err != nil {
			return err
		}
		value, err := core.ParseAmount(amount)
		if err != nil {
			return err
		}
		return m.EditAdditionalCost(position, value, description)
	})
}

// DeleteCost removes the additional cost at a 1-based position and returns
// the removed entry for display.
func (s *LedgerService) DeleteCost(ctx context.Context, monthKey string, position int) (core.AdditionalCost, core.Summary, error) {
	if err := core.ValidateMonthKey(monthKey); err != nil {
		return core.AdditionalCost{}, core.Summary{}, err
	}
	var removed core.AdditionalCost
	summary, err := s.mutateMonth(ctx, monthKey, func(m *core.Month) error {
		entry, err := m.DeleteAdditionalCost(position)
		if err != nil {
			return err
		}
		removed = entry
		return nil
	})
	if err != nil {
		return core.AdditionalCost{}, core.Summary{}, err
	}
	return removed, summary, nil
}

// AddPayment records a payment toward the month's total due.
func (s *LedgerService) AddPayment(ctx context.Context, monthKey, amount string) (core.Summary, error) {
	if err := core.ValidateMonthKey(monthKey); err != nil {
		return core.Summary{}, err
	}
	value, err := core.ParsePayment(amount)
	if err != nil {
		return core.Summary{}, err
	}
	return s.mutateMonth(ctx, monthKey, func(m *core.Month) error {
		return m.AddPayment(value)
	})
}

// mutateMonth runs the load → mutate → save cycle for one existing month.
// When fn fails nothing is saved, so a rejected mutation never partially
// applies.
func (s *LedgerService) mutateMonth(ctx context.Context, monthKey string, fn func(*core.Month) error) (core.Summary, error) {
	store, err := s.repo.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	m, err := store.Get(monthKey)
	if err != nil {
		return core.Summary{}, err
	}
	if err := fn(m); err != nil {
		return core.Summary{}, err
	}
	if err := s.repo.Save(ctx, store); err != nil {
		return core.Summary{}, err
	}
	s.publish(ctx, monthKey, amqp.OpUpdated)
	return m.Summary(), nil
}

// publish emits a month event. Failures are logged and tolerated: the
// ledger save already succeeded and the mirror reconciles on the next
// delivery.
func (s *LedgerService) publish(ctx context.Context, monthKey, op string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMonthEvent(ctx, monthKey, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish month event",
			"month_key", monthKey,
			"op", op,
			"error", err)
	}
}
