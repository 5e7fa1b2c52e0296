// Package filestore persists the ledger as a single JSON document on disk.
//
// The document maps month keys to stored month fields; derived figures are
// never written, they are recomputed after load.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"housetab/internal/core"
)

// Store reads and writes the ledger document at a fixed path. A missing
// file is an empty ledger, not an error; unparseable content is fatal for
// the invocation and never auto-repaired.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document into a core.Store. Every month takes its map key
// as MonthKey; documents written before payments existed load with an empty
// payment list.
func (s *Store) Load(ctx context.Context) (core.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.NewStore(), nil
		}
		return nil, fmt.Errorf("read ledger file %s: %w", s.path, err)
	}

	var months map[string]*core.Month
	if err := json.Unmarshal(data, &months); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrCorruptStore, s.path, err)
	}

	store := core.NewStore()
	for key, m := range months {
		if m == nil {
			return nil, fmt.Errorf("%w: %s: null entry for %s", core.ErrCorruptStore, s.path, key)
		}
		m.MonthKey = key
		if m.AdditionalCosts == nil {
			m.AdditionalCosts = []core.AdditionalCost{}
		}
		if m.Payments == nil {
			m.Payments = []decimal.Decimal{}
		}
		store.Put(m)
	}

	slog.DebugContext(ctx, "Ledger loaded", "path", s.path, "months", len(store))
	return store, nil
}

// Save replaces the document atomically: marshal, write a temp file next to
// the target, then rename over it. A failed write never truncates the
// existing document.
func (s *Store) Save(ctx context.Context, store core.Store) error {
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create ledger directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger file %s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Ledger saved", "path", s.path, "months", len(store))
	return nil
}
