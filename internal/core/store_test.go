package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStoreOperations(t *testing.T) {
	s := NewStore()

	if _, err := s.Get("2025-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if err := s.Delete("2025-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found on delete, got %v", err)
	}

	m := januaryFixture(t)
	s.Put(m)
	if !s.Has("2025-01") {
		t.Fatal("Has after Put = false")
	}
	got, err := s.Get("2025-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != m {
		t.Fatal("Get returned a different month")
	}

	if err := s.Delete("2025-01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Has("2025-01") {
		t.Fatal("month survived delete")
	}
}

func TestStoreKeysSorted(t *testing.T) {
	s := NewStore()
	for _, key := range []string{"2025-03", "2024-12", "2025-01"} {
		m, err := NewMonth(key, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, nil, nil)
		if err != nil {
			t.Fatalf("NewMonth(%s): %v", key, err)
		}
		s.Put(m)
	}
	keys := s.Keys()
	want := []string{"2024-12", "2025-01", "2025-03"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
