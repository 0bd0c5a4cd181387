package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDayValidate(t *testing.T) {
	cases := []struct {
		in Day
		ok bool
	}{
		{"2026-01-05", true},
		{"2026-12-31", true},
		{"2026-1-05", false}, // missing zero padding
		{"2026-01-5", false},
		{"2026-13-01", false},
		{"2026-02-30", false},
		{"05-01-2026", false},
		{"", false},
	}
	for _, tc := range cases {
		err := tc.in.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%q expected valid, got %v", tc.in, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestClockValidate(t *testing.T) {
	cases := []struct {
		in Clock
		ok bool
	}{
		{"00:00", true},
		{"23:59", true},
		{"09:05", true},
		{"9:05", false}, // missing zero padding
		{"24:00", false},
		{"12:60", false},
		{"", false},
	}
	for _, tc := range cases {
		err := tc.in.Validate()
		if tc.ok != (err == nil) {
			t.Fatalf("%q: ok=%v, err=%v", tc.in, tc.ok, err)
		}
	}
}

func TestMonthValidate(t *testing.T) {
	if err := Month("2026-09").Validate(); err != nil {
		t.Fatalf("expected valid month, got %v", err)
	}
	for _, in := range []Month{"2026-9", "2026-13", "2026", ""} {
		if err := in.Validate(); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("%q expected ErrInvalidMonth, got %v", in, err)
		}
	}
}

func TestOfHelpers(t *testing.T) {
	ts := time.Date(2026, 3, 7, 8, 4, 0, 0, time.UTC)
	if got := DayOf(ts); got != "2026-03-07" {
		t.Fatalf("DayOf: got %q", got)
	}
	if got := ClockOf(ts); got != "08:04" {
		t.Fatalf("ClockOf: got %q", got)
	}
	if got := MonthOf(ts); got != "2026-03" {
		t.Fatalf("MonthOf: got %q", got)
	}
}

func validExpense() Expense {
	return Expense{
		ID:            "e1",
		OwnerID:       "u1",
		Amount:        Money{Cents: 1500},
		Category:      DefaultCategories[0],
		Description:   "lunch",
		Date:          "2026-09-01",
		Time:          "12:30",
		PaymentMethod: Cash,
	}
}

func TestExpenseValidate(t *testing.T) {
	if err := validExpense().Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
		want   error
	}{
		{"zero amount", func(e *Expense) { e.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount.Cents = -5 }, ErrInvalidAmount},
		{"blank category", func(e *Expense) { e.Category = "   " }, ErrEmptyCategory},
		{"bad date", func(e *Expense) { e.Date = "2026/09/01" }, ErrInvalidDate},
		{"bad time", func(e *Expense) { e.Time = "noon" }, ErrInvalidTime},
		{"bad payment", func(e *Expense) { e.PaymentMethod = "cheque" }, ErrInvalidPayment},
	}
	for _, tc := range cases {
		e := validExpense()
		tc.mutate(&e)
		if err := e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	long := validExpense()
	long.Description = strings.Repeat("x", 201)
	if err := long.Validate(); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
}

func TestSalaryValidate(t *testing.T) {
	s := Salary{ID: "s1", OwnerID: "u1", Amount: Money{Cents: 0}, Month: "2026-09"}
	if err := s.Validate(); err != nil {
		t.Fatalf("zero salary should be valid: %v", err)
	}

	s.Amount.Cents = -1
	if err := s.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	s.Amount.Cents = 100
	s.Month = "2026-9"
	if err := s.Validate(); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}

	s.Month = "2026-09"
	s.Notes = strings.Repeat("x", 501)
	if err := s.Validate(); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
}
