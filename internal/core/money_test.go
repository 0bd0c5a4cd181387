package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{"12.345", 1235, true},
		{"12.344", 1234, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "12.34" {
		t.Fatalf("expected 12.34, got %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"99,95"`), &m); err != nil {
		t.Fatalf("unmarshal quoted comma form: %v", err)
	}
	if m.Cents != 9995 {
		t.Fatalf("expected 9995 cents, got %d", m.Cents)
	}

	if err := json.Unmarshal([]byte(`-3`), &m); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 500}
	b := Money{Cents: 700}
	if got := a.Sub(b).Cents; got != -200 {
		t.Fatalf("Sub: expected -200, got %d", got)
	}
	if got := a.Add(b).Cents; got != 1200 {
		t.Fatalf("Add: expected 1200, got %d", got)
	}
}
