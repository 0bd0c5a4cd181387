package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"masareef/internal/core"
	"masareef/internal/log"
	"masareef/internal/store"
)

// Default limits created for an owner on first access.
const (
	defaultDailyLimitCents  = 50000  // 500.00
	defaultWeeklyLimitCents = 300000 // 3000.00
)

// SettingsPatch is a partial update; nil fields keep the existing value.
type SettingsPatch struct {
	DailyLimit    *core.Money
	WeeklyLimit   *core.Money
	AlertsEnabled *bool
}

// SettingsService owns the per-owner settings singleton. The row is created
// lazily with hard-coded defaults on first Load.
type SettingsService struct {
	store  store.SettingsStore
	logger *log.Logger
	now    func() time.Time

	mu     sync.Mutex
	cached map[string]core.Settings
}

func NewSettingsService(st store.SettingsStore, logger *log.Logger) *SettingsService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SettingsService{
		store:  st,
		logger: logger.WithComponent(log.ComponentSettings),
		now:    time.Now,
		cached: make(map[string]core.Settings),
	}
}

// DefaultSettings returns the settings written for an owner with no row yet.
func DefaultSettings(ownerID string, now time.Time) core.Settings {
	return core.Settings{
		OwnerID:       ownerID,
		DailyLimit:    core.Money{Cents: defaultDailyLimitCents},
		WeeklyLimit:   core.Money{Cents: defaultWeeklyLimitCents},
		AlertsEnabled: true,
		UpdatedAt:     now,
	}
}

// Load returns the owner's settings, creating the default row when none
// exists. Results are cached until the next Update or Refresh.
func (s *SettingsService) Load(ctx context.Context, ownerID string) (core.Settings, error) {
	if ownerID == "" {
		return core.Settings{}, core.ErrUnauthenticated
	}

	s.mu.Lock()
	if cfg, ok := s.cached[ownerID]; ok {
		s.mu.Unlock()
		return cfg, nil
	}
	s.mu.Unlock()

	cfg, err := s.store.LoadSettings(ctx, ownerID)
	if errors.Is(err, core.ErrNotFound) {
		cfg = DefaultSettings(ownerID, s.now())
		if err := s.store.SaveSettings(ctx, cfg); err != nil {
			return core.Settings{}, fmt.Errorf("create default settings: %w", err)
		}
		s.logger.InfoContext(ctx, "Created default settings",
			log.FieldOwnerID, ownerID)
	} else if err != nil {
		return core.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	s.mu.Lock()
	s.cached[ownerID] = cfg
	s.mu.Unlock()
	return cfg, nil
}

// Update merges patch over the current settings and persists the result.
func (s *SettingsService) Update(ctx context.Context, ownerID string, patch SettingsPatch) (core.Settings, error) {
	current, err := s.Load(ctx, ownerID)
	if err != nil {
		return core.Settings{}, err
	}

	next := current
	if patch.DailyLimit != nil {
		next.DailyLimit = *patch.DailyLimit
	}
	if patch.WeeklyLimit != nil {
		next.WeeklyLimit = *patch.WeeklyLimit
	}
	if patch.AlertsEnabled != nil {
		next.AlertsEnabled = *patch.AlertsEnabled
	}
	next.UpdatedAt = s.now()

	if err := next.Validate(); err != nil {
		return core.Settings{}, err
	}
	if err := s.store.SaveSettings(ctx, next); err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	s.cached[ownerID] = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Settings updated",
		log.FieldOwnerID, ownerID,
		"daily_limit_cents", next.DailyLimit.Cents,
		"weekly_limit_cents", next.WeeklyLimit.Cents)
	return next, nil
}

// Refresh drops the cached copy so the next Load re-reads the store.
func (s *SettingsService) Refresh(_ context.Context, ownerID string) error {
	s.mu.Lock()
	delete(s.cached, ownerID)
	s.mu.Unlock()
	return nil
}
