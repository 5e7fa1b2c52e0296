package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{" 12.34 ", "12.34", true},
		{"0", "0", true},
		{"12.345", "12.35", true}, // half-up at the third decimal
		{"12.344", "12.34", true},
		{"1200", "1200", true},
		{"", "", false},
		{"abc", "", false},
		{"-0.01", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tc.in, err)
			}
			if !got.Equal(dec(t, tc.want)) {
				t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("ParseAmount(%q): expected error", tc.in)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("ParseAmount(%q): expected validation error, got %v", tc.in, err)
		}
	}
}

func TestParsePayment(t *testing.T) {
	if got, err := ParsePayment("700.00"); err != nil || !got.Equal(dec(t, "700")) {
		t.Fatalf("got %s, %v", got, err)
	}
	for _, in := range []string{"0", "0.00", "-5", "x"} {
		if _, err := ParsePayment(in); !errors.Is(err, ErrValidation) {
			t.Fatalf("ParsePayment(%q): expected validation error, got %v", in, err)
		}
	}
}

func TestValidateMonthKey(t *testing.T) {
	good := []string{"2025-01", "2025-12", "1999-06"}
	for _, s := range good {
		if err := ValidateMonthKey(s); err != nil {
			t.Fatalf("ValidateMonthKey(%q): %v", s, err)
		}
	}
	bad := []string{"", "2025-13", "2025-00", "2025-1", "25-01", "2025/01", "2025-01-01", "january"}
	for _, s := range bad {
		if err := ValidateMonthKey(s); !errors.Is(err, ErrValidation) {
			t.Fatalf("ValidateMonthKey(%q): expected validation error, got %v", s, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1200", "1200.00"},
		{"45.5", "45.50"},
		{"0.005", "0.01"},
		{"-670.5", "-670.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(dec(t, tc.in)); got != tc.want {
			t.Fatalf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
