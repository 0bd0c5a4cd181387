package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Cash          PaymentMethod = "cash"
	Card          PaymentMethod = "card"
	DigitalWallet PaymentMethod = "digital_wallet"
)

type (
	PaymentMethod string

	// Day is a calendar date in "YYYY-MM-DD" form. Zero padding makes plain
	// string comparison chronological, which the grouping and week-window
	// derivations rely on.
	Day string

	// Clock is a local time of day in "HH:mm" form, zero padded for the same
	// reason as Day. A Day and a Clock are never combined into one instant.
	Clock string

	// Month is a calendar month in "YYYY-MM" form.
	Month string

	Expense struct {
		ID            string
		OwnerID       string
		Amount        Money
		Category      string
		Description   string
		Date          Day
		Time          Clock
		PaymentMethod PaymentMethod
		Archived      bool
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	Salary struct {
		ID        string
		OwnerID   string
		Amount    Money
		Month     Month
		Notes     string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Settings is a per-owner singleton, created lazily with defaults on
	// first access.
	Settings struct {
		OwnerID       string
		DailyLimit    Money
		WeeklyLimit   Money
		AlertsEnabled bool
		UpdatedAt     time.Time
	}

	User struct {
		ID           string
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	Session struct {
		Token     string
		UserID    string
		ExpiresAt time.Time
	}
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrUnauthenticated = errors.New("no authenticated owner")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTime     = errors.New("invalid time")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidPayment  = errors.New("invalid payment method")
	ErrTextTooLong     = errors.New("text too long")
)

// DefaultCategories mirrors the category list shipped with the client.
var DefaultCategories = []string{
	"طعام",
	"مواصلات",
	"تسوق",
	"فواتير",
	"صحة",
	"تعليم",
	"ترفيه",
	"منزل",
	"هدايا",
	"أخرى",
}

const (
	dayLayout   = "2006-01-02"
	clockLayout = "15:04"
	monthLayout = "2006-01"
)

func (d Day) Validate() error {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil || t.Format(dayLayout) != string(d) {
		return ErrInvalidDate
	}
	return nil
}

func (c Clock) Validate() error {
	t, err := time.Parse(clockLayout, string(c))
	if err != nil || t.Format(clockLayout) != string(c) {
		return ErrInvalidTime
	}
	return nil
}

func (m Month) Validate() error {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil || t.Format(monthLayout) != string(m) {
		return ErrInvalidMonth
	}
	return nil
}

// DayOf formats t as a Day in t's location.
func DayOf(t time.Time) Day { return Day(t.Format(dayLayout)) }

// ClockOf formats t as a Clock in t's location.
func ClockOf(t time.Time) Clock { return Clock(t.Format(clockLayout)) }

// MonthOf formats t as a Month in t's location.
func MonthOf(t time.Time) Month { return Month(t.Format(monthLayout)) }

func (p PaymentMethod) Validate() error {
	switch p {
	case Cash, Card, DigitalWallet:
		return nil
	default:
		return ErrInvalidPayment
	}
}

func (e Expense) Validate() error {
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return fmt.Errorf("%w: description (max 200 characters)", ErrTextTooLong)
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Time.Validate(); err != nil {
		return err
	}
	return e.PaymentMethod.Validate()
}

func (s Salary) Validate() error {
	if s.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := s.Month.Validate(); err != nil {
		return err
	}
	if len(s.Notes) > 500 {
		return fmt.Errorf("%w: notes (max 500 characters)", ErrTextTooLong)
	}
	return nil
}

func (s Settings) Validate() error {
	if s.DailyLimit.Cents < 0 || s.WeeklyLimit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
