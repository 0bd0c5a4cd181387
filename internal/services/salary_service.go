package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"masareef/internal/amqp"
	"masareef/internal/cache"
	"masareef/internal/core"
	"masareef/internal/log"
	"masareef/internal/store"
)

// NewSalaryInput carries the caller-supplied fields of a new salary entry.
type NewSalaryInput struct {
	Amount core.Money
	Month  core.Month
	Notes  string
}

// SalaryPatch is a partial update; nil fields keep the existing value.
type SalaryPatch struct {
	ID     string
	Amount *core.Money
	Month  *core.Month
	Notes  *string
}

type salaryState struct {
	*collection[core.Salary]
	byMonth *cache.View[core.Salary, []core.MonthGroup]
	total   *cache.View[core.Salary, core.Money]
}

// SalaryService reconciles the salary cache with the record store. Months
// may hold any number of entries; grouping happens in the derived views.
type SalaryService struct {
	store  store.SalaryStore
	events ChangePublisher
	logger *log.Logger

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	owners map[string]*salaryState
	flight singleflight.Group
}

func NewSalaryService(st store.SalaryStore, events ChangePublisher, logger *log.Logger) *SalaryService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SalaryService{
		store:  st,
		events: events,
		logger: logger.WithComponent(log.ComponentSalary),
		now:    time.Now,
		newID:  uuid.NewString,
		owners: make(map[string]*salaryState),
	}
}

func (s *SalaryService) state(ownerID string) *salaryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.owners[ownerID]
	if !ok {
		col := newCollection[core.Salary]()
		st = &salaryState{
			collection: col,
			byMonth:    cache.NewView(col.snap, salariesByMonth),
			total:      cache.NewView(col.snap, totalSalary),
		}
		s.owners[ownerID] = st
	}
	return st
}

// Refresh reloads the owner's snapshot; empty owner resets it without error.
func (s *SalaryService) Refresh(ctx context.Context, ownerID string) error {
	st := s.state(ownerID)
	if ownerID == "" {
		token := st.beginRefresh()
		defer st.endRefresh()
		st.apply(token, nil)
		return nil
	}

	_, err, _ := s.flight.Do(ownerID, func() (any, error) {
		token := st.beginRefresh()
		defer st.endRefresh()

		records, err := s.store.ListSalaries(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("list salaries: %w", err)
		}
		if !st.apply(token, records) {
			s.logger.DebugContext(ctx, "Discarded stale refresh response",
				log.FieldOwnerID, ownerID)
		}
		return nil, nil
	})
	return err
}

// refreshAfterMutation forgets any in-flight fetch before refreshing. A fetch
// that started before the commit may not see the new row, and joining it
// would hand the mutation a pre-commit snapshot; forgetting forces a read
// that starts after the commit.
func (s *SalaryService) refreshAfterMutation(ctx context.Context, ownerID string) error {
	s.flight.Forget(ownerID)
	return s.Refresh(ctx, ownerID)
}

// EnsureLoaded performs the initial refresh for an owner whose snapshot has
// never been populated. Subsequent calls are free.
func (s *SalaryService) EnsureLoaded(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return core.ErrUnauthenticated
	}
	if s.state(ownerID).loaded() {
		return nil
	}
	return s.Refresh(ctx, ownerID)
}

// Add creates a new salary entry and refreshes the snapshot.
func (s *SalaryService) Add(ctx context.Context, ownerID string, input NewSalaryInput) (core.Salary, error) {
	if ownerID == "" {
		return core.Salary{}, core.ErrUnauthenticated
	}

	now := s.now()
	sal := core.Salary{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Amount:    input.Amount,
		Month:     input.Month,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := sal.Validate(); err != nil {
		return core.Salary{}, err
	}

	if err := s.store.CreateSalary(ctx, sal); err != nil {
		return core.Salary{}, fmt.Errorf("create salary: %w", err)
	}

	s.logger.InfoContext(ctx, "Salary created",
		log.FieldSalaryID, sal.ID,
		log.FieldOwnerID, ownerID,
		log.FieldMonth, sal.Month,
		log.FieldAmountCents, sal.Amount.Cents)
	s.publish(ctx, amqp.ActionCreated, sal.ID, ownerID)

	if err := s.refreshAfterMutation(ctx, ownerID); err != nil {
		return sal, err
	}
	return sal, nil
}

// Get returns one salary entry straight from the record store.
func (s *SalaryService) Get(ctx context.Context, ownerID, id string) (core.Salary, error) {
	if ownerID == "" {
		return core.Salary{}, core.ErrUnauthenticated
	}
	return s.store.GetSalary(ctx, ownerID, id)
}

// Update merges patch over the stored entry; missing ids surface as
// core.ErrNotFound before any write.
func (s *SalaryService) Update(ctx context.Context, ownerID string, patch SalaryPatch) (core.Salary, error) {
	if ownerID == "" {
		return core.Salary{}, core.ErrUnauthenticated
	}

	existing, err := s.store.GetSalary(ctx, ownerID, patch.ID)
	if err != nil {
		return core.Salary{}, err
	}

	updated := existing
	if patch.Amount != nil {
		updated.Amount = *patch.Amount
	}
	if patch.Month != nil {
		updated.Month = *patch.Month
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	updated.UpdatedAt = s.now()

	if err := updated.Validate(); err != nil {
		return core.Salary{}, err
	}
	if err := s.store.UpdateSalary(ctx, updated); err != nil {
		return core.Salary{}, fmt.Errorf("update salary: %w", err)
	}

	s.publish(ctx, amqp.ActionUpdated, updated.ID, ownerID)

	if err := s.refreshAfterMutation(ctx, ownerID); err != nil {
		return updated, err
	}
	return updated, nil
}

// Remove hard-deletes a salary entry, then refreshes.
func (s *SalaryService) Remove(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return core.ErrUnauthenticated
	}
	if err := s.store.DeleteSalary(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Salary deleted",
		log.FieldSalaryID, id,
		log.FieldOwnerID, ownerID)
	s.publish(ctx, amqp.ActionDeleted, id, ownerID)
	return s.refreshAfterMutation(ctx, ownerID)
}

// Loading reports whether a refresh is in flight for the owner.
func (s *SalaryService) Loading(ownerID string) bool {
	return s.state(ownerID).loading()
}

// Salaries returns the raw snapshot.
func (s *SalaryService) Salaries(ownerID string) []core.Salary {
	return s.state(ownerID).snap.Records()
}

// SalariesByMonth groups entries by month, most recent month first, each
// group carrying its precomputed total.
func (s *SalaryService) SalariesByMonth(ownerID string) []core.MonthGroup {
	return s.state(ownerID).byMonth.Get()
}

// Total sums every salary entry in the snapshot.
func (s *SalaryService) Total(ownerID string) core.Money {
	return s.state(ownerID).total.Get()
}

// TotalByMonth sums the entries for one month.
func (s *SalaryService) TotalByMonth(ownerID string, month core.Month) core.Money {
	records, _ := s.state(ownerID).snap.Load()
	cents := cache.SumCents(records, func(sal core.Salary) int64 {
		if sal.Month != month {
			return 0
		}
		return sal.Amount.Cents
	})
	return core.Money{Cents: cents}
}

// Months returns the distinct months present, most recent first.
func (s *SalaryService) Months(ownerID string) []core.Month {
	groups := s.SalariesByMonth(ownerID)
	out := make([]core.Month, len(groups))
	for i, g := range groups {
		out[i] = g.Month
	}
	return out
}

func (s *SalaryService) publish(ctx context.Context, action, id, ownerID string) {
	if s.events == nil {
		return
	}
	msg := amqp.NewChangeMessage(amqp.EntitySalary, action, id, ownerID)
	if err := s.events.PublishChange(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish change message",
			log.FieldSalaryID, id,
			log.FieldAction, action,
			log.FieldError, err)
	}
}

func salariesByMonth(records []core.Salary) []core.MonthGroup {
	groups := cache.GroupBy(records, func(sal core.Salary) core.Month { return sal.Month })

	out := make([]core.MonthGroup, 0, len(groups))
	for month, salaries := range groups {
		cents := cache.SumCents(salaries, func(sal core.Salary) int64 { return sal.Amount.Cents })
		out = append(out, core.MonthGroup{
			Month:    month,
			Salaries: salaries,
			Total:    core.Money{Cents: cents},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

func totalSalary(records []core.Salary) core.Money {
	cents := cache.SumCents(records, func(sal core.Salary) int64 { return sal.Amount.Cents })
	return core.Money{Cents: cents}
}
