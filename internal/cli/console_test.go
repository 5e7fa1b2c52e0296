package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"housetab/internal/core"
	"housetab/internal/memstore"
	"housetab/internal/services"
)

func newConsole(t *testing.T) *Console {
	t.Helper()
	ledger := services.NewLedgerService(memstore.New(), nil)
	if _, err := ledger.CreateMonth(context.Background(), "2025-01", services.FixedCosts{
		Rent: "1200", Heating: "80", Electric: "70", Water: "40", Internet: "60",
	}); err != nil {
		t.Fatalf("CreateMonth: %v", err)
	}
	return NewConsole(ledger)
}

func TestConsoleHelp(t *testing.T) {
	result, err := newConsole(t).Execute(context.Background(), "help")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(result.Output, "-l, --list") {
		t.Fatalf("help output missing commands:\n%s", result.Output)
	}
	if result.RefreshNeeded {
		t.Fatal("help should not request a refresh")
	}
}

func TestConsoleList(t *testing.T) {
	result, err := newConsole(t).Execute(context.Background(), "-l")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(result.Output, "2025-01: $1325.00") {
		t.Fatalf("list output:\n%s", result.Output)
	}
}

func TestConsoleViewMonth(t *testing.T) {
	result, err := newConsole(t).Execute(context.Background(), "--list 2025-01")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(result.Output, "MONTH SUMMARY: 2025-01") {
		t.Fatalf("view output:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "TOTAL MONTH DUE:     $1325.00") {
		t.Fatalf("view output:\n%s", result.Output)
	}
}

func TestConsoleViewUnknownMonth(t *testing.T) {
	if _, err := newConsole(t).Execute(context.Background(), "-l 2030-01"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestConsoleDelete(t *testing.T) {
	console := newConsole(t)
	result, err := console.Execute(context.Background(), "-d 2025-01")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Output != "Deleted 2025-01" {
		t.Fatalf("delete output = %q", result.Output)
	}
	if !result.RefreshNeeded {
		t.Fatal("delete should request a refresh")
	}

	if _, err := console.Execute(context.Background(), "-d 2025-01"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
}

func TestConsoleDeleteRequiresMonth(t *testing.T) {
	if _, err := newConsole(t).Execute(context.Background(), "-d"); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConsoleInteractivePointers(t *testing.T) {
	console := newConsole(t)
	for _, cmd := range []string{"-n 2025-02", "-e 2025-01 -t rent"} {
		result, err := console.Execute(context.Background(), cmd)
		if err != nil {
			t.Fatalf("Execute(%q): %v", cmd, err)
		}
		if result.RefreshNeeded {
			t.Fatalf("%q should not request a refresh", cmd)
		}
		if result.Output == "" {
			t.Fatalf("%q produced no pointer message", cmd)
		}
	}
}

func TestConsoleUnknownAndEmptyCommands(t *testing.T) {
	console := newConsole(t)
	if _, err := console.Execute(context.Background(), "--frobnicate"); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := console.Execute(context.Background(), "   "); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error for empty command, got %v", err)
	}
}
