package http

import (
	"time"

	"masareef/internal/core"
)

// Wire shapes for API responses. Domain structs stay tag-free; the mapping
// lives here so the API contract can evolve without touching core.

type expenseJSON struct {
	ID            string     `json:"id"`
	Amount        core.Money `json:"amount"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	Date          core.Day   `json:"date"`
	Time          core.Clock `json:"time"`
	PaymentMethod string     `json:"paymentMethod"`
	Archived      bool       `json:"archived"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:            e.ID,
		Amount:        e.Amount,
		Category:      e.Category,
		Description:   e.Description,
		Date:          e.Date,
		Time:          e.Time,
		PaymentMethod: string(e.PaymentMethod),
		Archived:      e.Archived,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toExpenseListJSON(records []core.Expense) []expenseJSON {
	out := make([]expenseJSON, 0, len(records))
	for _, e := range records {
		out = append(out, toExpenseJSON(e))
	}
	return out
}

type salaryJSON struct {
	ID        string     `json:"id"`
	Amount    core.Money `json:"amount"`
	Month     core.Month `json:"month"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toSalaryJSON(s core.Salary) salaryJSON {
	return salaryJSON{
		ID:        s.ID,
		Amount:    s.Amount,
		Month:     s.Month,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSalaryListJSON(records []core.Salary) []salaryJSON {
	out := make([]salaryJSON, 0, len(records))
	for _, s := range records {
		out = append(out, toSalaryJSON(s))
	}
	return out
}

type settingsJSON struct {
	DailyLimit    core.Money `json:"dailyLimit"`
	WeeklyLimit   core.Money `json:"weeklyLimit"`
	AlertsEnabled bool       `json:"alertsEnabled"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toSettingsJSON(s core.Settings) settingsJSON {
	return settingsJSON{
		DailyLimit:    s.DailyLimit,
		WeeklyLimit:   s.WeeklyLimit,
		AlertsEnabled: s.AlertsEnabled,
		UpdatedAt:     s.UpdatedAt,
	}
}

type dailyTotalJSON struct {
	Date  core.Day   `json:"date"`
	Total core.Money `json:"total"`
}

type monthGroupJSON struct {
	Month    core.Month   `json:"month"`
	Salaries []salaryJSON `json:"salaries"`
	Total    core.Money   `json:"total"`
}

func toMonthGroupListJSON(groups []core.MonthGroup) []monthGroupJSON {
	out := make([]monthGroupJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, monthGroupJSON{
			Month:    g.Month,
			Salaries: toSalaryListJSON(g.Salaries),
			Total:    g.Total,
		})
	}
	return out
}

type userJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type sessionJSON struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userJSON  `json:"user"`
}
