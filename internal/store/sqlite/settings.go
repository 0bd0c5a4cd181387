package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"masareef/internal/core"
)

func (s *Store) LoadSettings(ctx context.Context, ownerID string) (core.Settings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT owner_id, daily_limit_cents, weekly_limit_cents, alerts_enabled, updated_at
		 FROM settings WHERE owner_id = ?`, ownerID)

	var (
		cfg       core.Settings
		alerts    int
		updatedAt string
	)
	err := row.Scan(&cfg.OwnerID, &cfg.DailyLimit.Cents, &cfg.WeeklyLimit.Cents, &alerts, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{}, core.ErrNotFound
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	cfg.AlertsEnabled = alerts != 0
	cfg.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return cfg, nil
}

func (s *Store) SaveSettings(ctx context.Context, cfg core.Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (owner_id, daily_limit_cents, weekly_limit_cents, alerts_enabled, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET
		   daily_limit_cents = excluded.daily_limit_cents,
		   weekly_limit_cents = excluded.weekly_limit_cents,
		   alerts_enabled = excluded.alerts_enabled,
		   updated_at = excluded.updated_at`,
		cfg.OwnerID, cfg.DailyLimit.Cents, cfg.WeeklyLimit.Cents,
		boolToInt(cfg.AlertsEnabled), cfg.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
