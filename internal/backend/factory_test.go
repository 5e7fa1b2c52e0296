package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"housetab/internal/core"
)

func TestCreateBackendRejectsInvalidType(t *testing.T) {
	factory := NewFactory(nil)
	if _, err := factory.CreateBackend(context.Background(), Config{Type: "postgres"}); err == nil {
		t.Fatal("expected error for invalid backend type")
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)
	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if result.Repository == nil {
		t.Fatal("no repository")
	}
	if result.Events != nil {
		t.Fatal("events should be nil without an AMQP URL")
	}

	store, err := result.Repository.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(store) != 0 {
		t.Fatalf("fresh store not empty: %v", store.Keys())
	}
}

func TestCreateFileBackend(t *testing.T) {
	factory := NewFactory(nil)
	path := filepath.Join(t.TempDir(), "months.json")
	result, err := factory.CreateBackend(context.Background(), Config{Type: FileBackend, LedgerPath: path})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}

	ctx := context.Background()
	store, err := result.Repository.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, err := core.NewMonth("2025-01",
		mustDec(t, "1200"), mustDec(t, "80"), mustDec(t, "70"), mustDec(t, "40"), mustDec(t, "60"),
		nil, nil)
	if err != nil {
		t.Fatalf("NewMonth: %v", err)
	}
	store.Put(m)
	if err := result.Repository.Save(ctx, store); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := result.Repository.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, err := reloaded.Get("2025-01"); err != nil {
		t.Fatalf("saved month missing: %v", err)
	}
}

func TestCreateFileBackendRequiresPath(t *testing.T) {
	factory := NewFactory(nil)
	if _, err := factory.CreateBackend(context.Background(), Config{Type: FileBackend}); err == nil {
		t.Fatal("expected error for missing ledger path")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{Type: MemoryBackend}).Validate(); err != nil {
		t.Fatalf("memory config: %v", err)
	}
	if err := (Config{Type: FileBackend}).Validate(); err == nil {
		t.Fatal("file backend without path should fail validation")
	}
	if err := (Config{Type: "bogus"}).Validate(); err == nil {
		t.Fatal("bogus type should fail validation")
	}
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := core.ParseAmount(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return v
}
