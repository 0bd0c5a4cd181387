package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"masareef/internal/core"
)

const salaryColumns = `id, owner_id, amount_cents, month, notes, created_at, updated_at`

func scanSalary(row interface{ Scan(...any) error }) (core.Salary, error) {
	var (
		sal                  core.Salary
		createdAt, updatedAt string
	)
	err := row.Scan(&sal.ID, &sal.OwnerID, &sal.Amount.Cents, &sal.Month, &sal.Notes,
		&createdAt, &updatedAt)
	if err != nil {
		return core.Salary{}, err
	}
	sal.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sal.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return sal, nil
}

func (s *Store) ListSalaries(ctx context.Context, ownerID string) ([]core.Salary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+salaryColumns+` FROM salaries WHERE owner_id = ? ORDER BY month DESC, created_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	defer rows.Close()

	out := make([]core.Salary, 0)
	for rows.Next() {
		sal, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salary: %w", err)
		}
		out = append(out, sal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	return out, nil
}

func (s *Store) GetSalary(ctx context.Context, ownerID, id string) (core.Salary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+salaryColumns+` FROM salaries WHERE id = ? AND owner_id = ?`,
		id, ownerID)
	sal, err := scanSalary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Salary{}, core.ErrNotFound
	}
	if err != nil {
		return core.Salary{}, fmt.Errorf("get salary: %w", err)
	}
	return sal, nil
}

func (s *Store) CreateSalary(ctx context.Context, sal core.Salary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO salaries (`+salaryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sal.ID, sal.OwnerID, sal.Amount.Cents, sal.Month, sal.Notes,
		sal.CreatedAt.Format(time.RFC3339), sal.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create salary: %w", err)
	}
	return nil
}

func (s *Store) UpdateSalary(ctx context.Context, sal core.Salary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE salaries SET amount_cents = ?, month = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		sal.Amount.Cents, sal.Month, sal.Notes, sal.UpdatedAt.Format(time.RFC3339),
		sal.ID, sal.OwnerID)
	if err != nil {
		return fmt.Errorf("update salary: %w", err)
	}
	return checkAffected(res)
}

func (s *Store) DeleteSalary(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM salaries WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete salary: %w", err)
	}
	return checkAffected(res)
}
