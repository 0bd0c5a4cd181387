package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"masareef/internal/core"
)

const expenseColumns = `id, owner_id, amount_cents, category, description, date, time, payment_method, archived, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		e                    core.Expense
		archived             int
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.OwnerID, &e.Amount.Cents, &e.Category, &e.Description,
		&e.Date, &e.Time, &e.PaymentMethod, &archived, &createdAt, &updatedAt)
	if err != nil {
		return core.Expense{}, err
	}
	e.Archived = archived != 0
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, ownerID string) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE owner_id = ? ORDER BY date DESC, time DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := make([]core.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

func (s *Store) GetExpense(ctx context.Context, ownerID, id string) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND owner_id = ?`,
		id, ownerID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.Amount.Cents, e.Category, e.Description,
		e.Date, e.Time, e.PaymentMethod, boolToInt(e.Archived),
		e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses
		 SET amount_cents = ?, category = ?, description = ?, date = ?, time = ?,
		     payment_method = ?, archived = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		e.Amount.Cents, e.Category, e.Description, e.Date, e.Time,
		e.PaymentMethod, boolToInt(e.Archived), e.UpdatedAt.Format(time.RFC3339),
		e.ID, e.OwnerID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return checkAffected(res)
}

func (s *Store) DeleteExpense(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return checkAffected(res)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
