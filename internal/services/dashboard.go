package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"masareef/internal/core"
	"masareef/internal/limits"
)

// Dashboard is the fully derived view handed to the presentation layer:
// daily and weekly evaluations, salary aggregates and the running balance,
// all computed from the current snapshots.
type Dashboard struct {
	Date      core.Day          `json:"date"`
	WeekStart core.Day          `json:"weekStart"`
	WeekEnd   core.Day          `json:"weekEnd"`
	Daily     limits.Evaluation `json:"daily"`
	Weekly    limits.Evaluation `json:"weekly"`

	TotalExpenses      core.Money `json:"totalExpenses"`
	TotalSalary        core.Money `json:"totalSalary"`
	CurrentMonth       core.Month `json:"currentMonth"`
	CurrentMonthSalary core.Money `json:"currentMonthSalary"`
	Balance            core.Money `json:"balance"`

	AlertsEnabled bool `json:"alertsEnabled"`
	Loading       bool `json:"loading"`
}

// DashboardService assembles the dashboard from the three controllers.
type DashboardService struct {
	expenses  *ExpenseService
	salaries  *SalaryService
	settings  *SettingsService
	weekStart time.Weekday
	now       func() time.Time
}

func NewDashboardService(expenses *ExpenseService, salaries *SalaryService, settings *SettingsService, weekStart time.Weekday) *DashboardService {
	return &DashboardService{
		expenses:  expenses,
		salaries:  salaries,
		settings:  settings,
		weekStart: weekStart,
		now:       time.Now,
	}
}

// Refresh reloads every collection for the owner concurrently.
func (s *DashboardService) Refresh(ctx context.Context, ownerID string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.expenses.Refresh(ctx, ownerID) })
	g.Go(func() error { return s.salaries.Refresh(ctx, ownerID) })
	g.Go(func() error { return s.settings.Refresh(ctx, ownerID) })
	return g.Wait()
}

// Evaluate derives the dashboard for the owner from the current snapshots
// and configured limits.
func (s *DashboardService) Evaluate(ctx context.Context, ownerID string) (Dashboard, error) {
	if ownerID == "" {
		return Dashboard{}, core.ErrUnauthenticated
	}

	cfg, err := s.settings.Load(ctx, ownerID)
	if err != nil {
		return Dashboard{}, err
	}

	now := s.now()
	today := core.DayOf(now)
	weekStart, weekEnd := limits.WeekRange(now, s.weekStart)
	month := core.MonthOf(now)

	dailyTotal := s.expenses.TotalByDate(ownerID, today)
	weeklyTotal := s.expenses.TotalBetween(ownerID, weekStart, weekEnd)
	totalExpenses := s.expenses.Total(ownerID)
	totalSalary := s.salaries.Total(ownerID)

	return Dashboard{
		Date:      today,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Daily:     limits.Evaluate(dailyTotal, cfg.DailyLimit),
		Weekly:    limits.Evaluate(weeklyTotal, cfg.WeeklyLimit),

		TotalExpenses:      totalExpenses,
		TotalSalary:        totalSalary,
		CurrentMonth:       month,
		CurrentMonthSalary: s.salaries.TotalByMonth(ownerID, month),
		Balance:            totalSalary.Sub(totalExpenses),

		AlertsEnabled: cfg.AlertsEnabled,
		Loading:       s.expenses.Loading(ownerID) || s.salaries.Loading(ownerID),
	}, nil
}
