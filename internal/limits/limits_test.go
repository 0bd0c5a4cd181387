package limits

import (
	"testing"
	"time"

	"masareef/internal/core"
)

func TestProgress(t *testing.T) {
	cases := []struct {
		name         string
		total, limit int64
		want         float64
	}{
		{"under limit", 2500, 10000, 0.25},
		{"at limit", 10000, 10000, 1},
		{"over limit clamps", 15000, 10000, 1},
		{"zero limit", 5000, 0, 0},
		{"negative limit", 5000, -100, 0},
		{"zero total", 0, 10000, 0},
	}
	for _, tc := range cases {
		if got := Progress(tc.total, tc.limit); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		ratio float64
		want  Severity
	}{
		{0, Success},
		{0.5, Success},
		{0.79, Success},
		{0.8, Warning},
		{0.99, Warning},
		{1, Danger},
		{1.4, Danger},
	}
	for _, tc := range cases {
		if got := Classify(tc.ratio); got != tc.want {
			t.Fatalf("ratio %v: expected %s, got %s", tc.ratio, tc.want, got)
		}
	}
}

func TestWeekRangeSaturdayStart(t *testing.T) {
	// Wednesday 2026-09-02 belongs to the week Sat 2026-08-29 .. Fri 2026-09-04.
	wednesday := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	first, last := WeekRange(wednesday, time.Saturday)
	if first != "2026-08-29" {
		t.Fatalf("expected week start 2026-08-29, got %s", first)
	}
	if last != "2026-09-04" {
		t.Fatalf("expected week end 2026-09-04, got %s", last)
	}

	// A Saturday is its own week start.
	saturday := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	first, last = WeekRange(saturday, time.Saturday)
	if first != "2026-08-29" || last != "2026-09-04" {
		t.Fatalf("saturday: got %s .. %s", first, last)
	}

	// Friday is the last day of the Saturday-start week.
	friday := time.Date(2026, 9, 4, 23, 0, 0, 0, time.UTC)
	first, last = WeekRange(friday, time.Saturday)
	if first != "2026-08-29" || last != "2026-09-04" {
		t.Fatalf("friday: got %s .. %s", first, last)
	}
}

func TestWeekRangeMondayStart(t *testing.T) {
	wednesday := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	first, last := WeekRange(wednesday, time.Monday)
	if first != "2026-08-31" || last != "2026-09-06" {
		t.Fatalf("got %s .. %s", first, last)
	}
}

func TestEvaluate(t *testing.T) {
	ev := Evaluate(core.Money{Cents: 45000}, core.Money{Cents: 50000})
	if ev.Severity != Warning {
		t.Fatalf("expected warning, got %s", ev.Severity)
	}
	if ev.Remaining.Cents != 5000 {
		t.Fatalf("expected 5000 remaining, got %d", ev.Remaining.Cents)
	}
	if ev.Percent != 90 {
		t.Fatalf("expected 90 percent, got %d", ev.Percent)
	}

	over := Evaluate(core.Money{Cents: 60000}, core.Money{Cents: 50000})
	if over.Severity != Danger {
		t.Fatalf("expected danger, got %s", over.Severity)
	}
	if over.Remaining.Cents != -10000 {
		t.Fatalf("remaining may go negative, got %d", over.Remaining.Cents)
	}
	if over.Progress != 1 {
		t.Fatalf("progress clamps to 1, got %v", over.Progress)
	}
}
