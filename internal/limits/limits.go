// Package limits derives spend-vs-budget state. Everything here is a pure
// function of totals and thresholds; the package holds no state.
package limits

import (
	"math"
	"time"

	"masareef/internal/core"
)

type Severity string

const (
	Success Severity = "success"
	Warning Severity = "warning"
	Danger  Severity = "danger"
)

// warningThreshold is fixed; the client renders the same three levels.
const warningThreshold = 0.8

// DefaultWeekStart matches the deployed client (weekStartsOn: Saturday).
const DefaultWeekStart = time.Saturday

// Progress returns total/limit clamped to [0, 1]. A limit of zero or less
// means "no limit configured" and yields zero progress rather than a
// division error.
func Progress(totalCents, limitCents int64) float64 {
	if limitCents <= 0 {
		return 0
	}
	p := float64(totalCents) / float64(limitCents)
	return math.Min(1, math.Max(0, p))
}

// Classify maps a spend ratio to a severity level. It accepts the raw,
// unclamped ratio: anything at or beyond the limit is danger.
func Classify(ratio float64) Severity {
	switch {
	case ratio >= 1:
		return Danger
	case ratio >= warningThreshold:
		return Warning
	default:
		return Success
	}
}

// WeekRange returns the first and last Day of the calendar week containing
// now, for a week starting on start.
func WeekRange(now time.Time, start time.Weekday) (core.Day, core.Day) {
	offset := (int(now.Weekday()) - int(start) + 7) % 7
	first := now.AddDate(0, 0, -offset)
	last := first.AddDate(0, 0, 6)
	return core.DayOf(first), core.DayOf(last)
}

// Evaluation is one period's spend measured against its configured limit.
type Evaluation struct {
	Total     core.Money `json:"total"`
	Limit     core.Money `json:"limit"`
	Remaining core.Money `json:"remaining"`
	Progress  float64    `json:"progress"`
	Percent   int        `json:"percent"`
	Severity  Severity   `json:"severity"`
}

// Evaluate assembles the full evaluation for one total/limit pair.
func Evaluate(total, limit core.Money) Evaluation {
	p := Progress(total.Cents, limit.Cents)
	return Evaluation{
		Total:     total,
		Limit:     limit,
		Remaining: limit.Sub(total),
		Progress:  p,
		Percent:   int(math.Round(p * 100)),
		Severity:  Classify(p),
	}
}
