// Package store defines the record-store ports the rest of the application
// talks to. Every operation is scoped by the owning identity; ownership is
// enforced here, never by the cache layer above.
package store

import (
	"context"

	"masareef/internal/core"
)

type (
	ExpenseStore interface {
		// ListExpenses returns every expense for the owner, archived rows
		// included.
		ListExpenses(ctx context.Context, ownerID string) ([]core.Expense, error)
		// GetExpense returns core.ErrNotFound when the row is absent or
		// belongs to a different owner.
		GetExpense(ctx context.Context, ownerID, id string) (core.Expense, error)
		CreateExpense(ctx context.Context, e core.Expense) error
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, ownerID, id string) error
	}

	SalaryStore interface {
		ListSalaries(ctx context.Context, ownerID string) ([]core.Salary, error)
		GetSalary(ctx context.Context, ownerID, id string) (core.Salary, error)
		CreateSalary(ctx context.Context, s core.Salary) error
		UpdateSalary(ctx context.Context, s core.Salary) error
		DeleteSalary(ctx context.Context, ownerID, id string) error
	}

	SettingsStore interface {
		// LoadSettings returns core.ErrNotFound when the owner has no row
		// yet; lazy default creation is the service's job.
		LoadSettings(ctx context.Context, ownerID string) (core.Settings, error)
		// SaveSettings upserts the owner's singleton row.
		SaveSettings(ctx context.Context, s core.Settings) error
	}

	UserStore interface {
		CreateUser(ctx context.Context, u core.User) error
		GetUser(ctx context.Context, id string) (core.User, error)
		GetUserByUsername(ctx context.Context, username string) (core.User, error)
	}

	SessionStore interface {
		CreateSession(ctx context.Context, s core.Session) error
		GetSession(ctx context.Context, token string) (core.Session, error)
		DeleteSession(ctx context.Context, token string) error
		DeleteExpiredSessions(ctx context.Context, now int64) error
		// Ping verifies the store is reachable; the identity provider's
		// readiness check calls it once at startup.
		Ping(ctx context.Context) error
	}
)

// Backend bundles every port plus lifecycle, mirroring what one physical
// store implements.
type Backend interface {
	ExpenseStore
	SalaryStore
	SettingsStore
	UserStore
	SessionStore

	Close() error
}
