// Package storage maintains the SQLite mirror of the ledger document. The
// mirror is written by the worker as month events arrive and exists for ad
// hoc querying; the JSON document stays the source of truth.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"housetab/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UpsertMonth replaces the mirrored rows for one month with the current
// ledger state. Costs and payments are rewritten wholesale so positional
// order survives edits and deletes.
func (r *SQLiteRepository) UpsertMonth(ctx context.Context, m *core.Month) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO months (month_key, rent, heating, electric, water, internet, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (month_key) DO UPDATE SET
			rent = excluded.rent,
			heating = excluded.heating,
			electric = excluded.electric,
			water = excluded.water,
			internet = excluded.internet,
			updated_at = CURRENT_TIMESTAMP`,
		m.MonthKey, m.Rent.String(), m.Heating.String(), m.Electric.String(), m.Water.String(), m.Internet.String())
	if err != nil {
		return fmt.Errorf("upsert month: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM month_costs WHERE month_key = ?", m.MonthKey); err != nil {
		return fmt.Errorf("clear costs: %w", err)
	}
	for i, c := range m.AdditionalCosts {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO month_costs (month_key, position, amount, description) VALUES (?, ?, ?, ?)",
			m.MonthKey, i+1, c.Amount.String(), c.Description)
		if err != nil {
			return fmt.Errorf("insert cost: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM month_payments WHERE month_key = ?", m.MonthKey); err != nil {
		return fmt.Errorf("clear payments: %w", err)
	}
	for i, p := range m.Payments {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO month_payments (month_key, position, amount) VALUES (?, ?, ?)",
			m.MonthKey, i+1, p.String())
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Month mirrored to SQLite",
		"month_key", m.MonthKey,
		"costs", len(m.AdditionalCosts),
		"payments", len(m.Payments))

	return nil
}

// DeleteMonth removes a mirrored month. Deleting a month that was never
// mirrored is not an error: the mirror converges on whatever the ledger
// says.
func (r *SQLiteRepository) DeleteMonth(ctx context.Context, monthKey string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM months WHERE month_key = ?", monthKey); err != nil {
		return fmt.Errorf("delete month: %w", err)
	}

	slog.InfoContext(ctx, "Month removed from SQLite mirror", "month_key", monthKey)
	return nil
}

// GetMonth reads one mirrored month back into the domain type.
func (r *SQLiteRepository) GetMonth(ctx context.Context, monthKey string) (*core.Month, error) {
	var rent, heating, electric, water, internet string
	err := r.db.QueryRowContext(ctx,
		"SELECT rent, heating, electric, water, internet FROM months WHERE month_key = ?",
		monthKey).Scan(&rent, &heating, &electric, &water, &internet)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no month found for %s", core.ErrNotFound, monthKey)
	}
	if err != nil {
		return nil, fmt.Errorf("query month: %w", err)
	}

	parsed := make([]decimal.Decimal, 5)
	for i, raw := range []string{rent, heating, electric, water, internet} {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse mirrored amount %q: %w", raw, err)
		}
		parsed[i] = d
	}

	costs, err := r.readCosts(ctx, monthKey)
	if err != nil {
		return nil, err
	}
	payments, err := r.readPayments(ctx, monthKey)
	if err != nil {
		return nil, err
	}

	return core.NewMonth(monthKey, parsed[0], parsed[1], parsed[2], parsed[3], parsed[4], costs, payments)
}

// ListMonthKeys returns the mirrored month keys in ascending order.
func (r *SQLiteRepository) ListMonthKeys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT month_key FROM months ORDER BY month_key ASC")
	if err != nil {
		return nil, fmt.Errorf("query month keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan month key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month keys: %w", err)
	}
	return keys, nil
}

func (r *SQLiteRepository) readCosts(ctx context.Context, monthKey string) ([]core.AdditionalCost, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT amount, description FROM month_costs WHERE month_key = ? ORDER BY position ASC",
		monthKey)
	if err != nil {
		return nil, fmt.Errorf("query costs: %w", err)
	}
	defer rows.Close()

	costs := []core.AdditionalCost{}
	for rows.Next() {
		var amount, description string
		if err := rows.Scan(&amount, &description); err != nil {
			return nil, fmt.Errorf("scan cost: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse mirrored amount %q: %w", amount, err)
		}
		costs = append(costs, core.AdditionalCost{Amount: d, Description: description})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate costs: %w", err)
	}
	return costs, nil
}

func (r *SQLiteRepository) readPayments(ctx context.Context, monthKey string) ([]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT amount FROM month_payments WHERE month_key = ? ORDER BY position ASC",
		monthKey)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []decimal.Decimal{}
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse mirrored amount %q: %w", amount, err)
		}
		payments = append(payments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}
