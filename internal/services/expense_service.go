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

// NewExpenseInput carries the caller-supplied fields of a new expense.
// Identifier and timestamps are generated here, never by the caller.
type NewExpenseInput struct {
	Amount        core.Money
	Category      string
	Description   string
	Date          core.Day
	Time          core.Clock
	PaymentMethod core.PaymentMethod
}

// ExpensePatch is a partial update; nil fields keep the existing value.
type ExpensePatch struct {
	ID            string
	Amount        *core.Money
	Category      *string
	Description   *string
	Date          *core.Day
	Time          *core.Clock
	PaymentMethod *core.PaymentMethod
	Archived      *bool
}

// expenseState bundles an owner's cached snapshot with its memoized views.
type expenseState struct {
	*collection[core.Expense]
	grouped *cache.View[core.Expense, []core.DailyTotal]
	total   *cache.View[core.Expense, core.Money]
}

// ExpenseService reconciles the expense cache with the record store.
type ExpenseService struct {
	store  store.ExpenseStore
	events ChangePublisher
	logger *log.Logger

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	owners map[string]*expenseState
	flight singleflight.Group
}

func NewExpenseService(st store.ExpenseStore, events ChangePublisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExpenseService{
		store:  st,
		events: events,
		logger: logger.WithComponent(log.ComponentExpense),
		now:    time.Now,
		newID:  uuid.NewString,
		owners: make(map[string]*expenseState),
	}
}

func (s *ExpenseService) state(ownerID string) *expenseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.owners[ownerID]
	if !ok {
		col := newCollection[core.Expense]()
		st = &expenseState{
			collection: col,
			grouped:    cache.NewView(col.snap, groupedDailyTotals),
			total:      cache.NewView(col.snap, totalActive),
		}
		s.owners[ownerID] = st
	}
	return st
}

// Refresh reloads the owner's snapshot from the record store. An empty owner
// id means "logged out" and resets the snapshot without error. Concurrent
// refreshes for one owner are coalesced; stale responses are discarded by
// the collection's token guard.
func (s *ExpenseService) Refresh(ctx context.Context, ownerID string) error {
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

		records, err := s.store.ListExpenses(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
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
func (s *ExpenseService) refreshAfterMutation(ctx context.Context, ownerID string) error {
	s.flight.Forget(ownerID)
	return s.Refresh(ctx, ownerID)
}

// EnsureLoaded performs the initial refresh for an owner whose snapshot has
// never been populated. Subsequent calls are free.
func (s *ExpenseService) EnsureLoaded(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return core.ErrUnauthenticated
	}
	if s.state(ownerID).loaded() {
		return nil
	}
	return s.Refresh(ctx, ownerID)
}

// Add creates a new expense and refreshes the snapshot. The mutation has
// committed remotely once the store call succeeds; a failing trailing
// refresh is reported to the caller but does not undo the write.
func (s *ExpenseService) Add(ctx context.Context, ownerID string, input NewExpenseInput) (core.Expense, error) {
	if ownerID == "" {
		return core.Expense{}, core.ErrUnauthenticated
	}

	now := s.now()
	e := core.Expense{
		ID:            s.newID(),
		OwnerID:       ownerID,
		Amount:        input.Amount,
		Category:      input.Category,
		Description:   input.Description,
		Date:          input.Date,
		Time:          input.Time,
		PaymentMethod: input.PaymentMethod,
		Archived:      false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense created",
		log.FieldExpenseID, e.ID,
		log.FieldOwnerID, ownerID,
		log.FieldAmountCents, e.Amount.Cents,
		log.FieldDate, e.Date)
	s.publish(ctx, amqp.ActionCreated, e.ID, ownerID)

	if err := s.refreshAfterMutation(ctx, ownerID); err != nil {
		return e, err
	}
	return e, nil
}

// Get returns one expense straight from the record store.
func (s *ExpenseService) Get(ctx context.Context, ownerID, id string) (core.Expense, error) {
	if ownerID == "" {
		return core.Expense{}, core.ErrUnauthenticated
	}
	return s.store.GetExpense(ctx, ownerID, id)
}

// Update merges patch over the stored record. A missing id surfaces as
// core.ErrNotFound before the write path is touched.
func (s *ExpenseService) Update(ctx context.Context, ownerID string, patch ExpensePatch) (core.Expense, error) {
	if ownerID == "" {
		return core.Expense{}, core.ErrUnauthenticated
	}

	existing, err := s.store.GetExpense(ctx, ownerID, patch.ID)
	if err != nil {
		return core.Expense{}, err
	}

	updated := existing
	if patch.Amount != nil {
		updated.Amount = *patch.Amount
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Time != nil {
		updated.Time = *patch.Time
	}
	if patch.PaymentMethod != nil {
		updated.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Archived != nil {
		updated.Archived = *patch.Archived
	}
	updated.UpdatedAt = s.now()

	if err := updated.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.store.UpdateExpense(ctx, updated); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	action := amqp.ActionUpdated
	if patch.Archived != nil && *patch.Archived && !existing.Archived {
		action = amqp.ActionArchived
	}
	s.publish(ctx, action, updated.ID, ownerID)

	if err := s.refreshAfterMutation(ctx, ownerID); err != nil {
		return updated, err
	}
	return updated, nil
}

// Remove hard-deletes an expense, then refreshes.
func (s *ExpenseService) Remove(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return core.ErrUnauthenticated
	}
	if err := s.store.DeleteExpense(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense deleted",
		log.FieldExpenseID, id,
		log.FieldOwnerID, ownerID)
	s.publish(ctx, amqp.ActionDeleted, id, ownerID)
	return s.refreshAfterMutation(ctx, ownerID)
}

// Archive is a soft delete: the row stays in the snapshot but every total
// and active-list view stops counting it.
func (s *ExpenseService) Archive(ctx context.Context, ownerID, id string) error {
	archived := true
	_, err := s.Update(ctx, ownerID, ExpensePatch{ID: id, Archived: &archived})
	return err
}

// Loading reports whether a refresh is in flight for the owner.
func (s *ExpenseService) Loading(ownerID string) bool {
	return s.state(ownerID).loading()
}

// Expenses returns the raw snapshot, archived rows included.
func (s *ExpenseService) Expenses(ownerID string) []core.Expense {
	return s.state(ownerID).snap.Records()
}

// ExpensesByDate returns the non-archived expenses for one date, ordered by
// time of day ascending.
func (s *ExpenseService) ExpensesByDate(ownerID string, date core.Day) []core.Expense {
	records, _ := s.state(ownerID).snap.Load()
	out := cache.Filter(records, func(e core.Expense) bool {
		return e.Date == date && !e.Archived
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// TotalByDate sums the non-archived expenses for one date.
func (s *ExpenseService) TotalByDate(ownerID string, date core.Day) core.Money {
	records, _ := s.state(ownerID).snap.Load()
	cents := cache.SumCents(records, func(e core.Expense) int64 {
		if e.Date != date || e.Archived {
			return 0
		}
		return e.Amount.Cents
	})
	return core.Money{Cents: cents}
}

// TotalBetween sums the non-archived expenses with from <= date <= to.
func (s *ExpenseService) TotalBetween(ownerID string, from, to core.Day) core.Money {
	records, _ := s.state(ownerID).snap.Load()
	cents := cache.SumCents(records, func(e core.Expense) int64 {
		if e.Archived || e.Date < from || e.Date > to {
			return 0
		}
		return e.Amount.Cents
	})
	return core.Money{Cents: cents}
}

// Total sums every non-archived expense in the snapshot.
func (s *ExpenseService) Total(ownerID string) core.Money {
	return s.state(ownerID).total.Get()
}

// GroupedDailyTotals returns one entry per date carrying the non-archived
// sum for that date, most recent date first.
func (s *ExpenseService) GroupedDailyTotals(ownerID string) []core.DailyTotal {
	return s.state(ownerID).grouped.Get()
}

func (s *ExpenseService) publish(ctx context.Context, action, id, ownerID string) {
	if s.events == nil {
		return
	}
	msg := amqp.NewChangeMessage(amqp.EntityExpense, action, id, ownerID)
	if err := s.events.PublishChange(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish change message",
			log.FieldExpenseID, id,
			log.FieldAction, action,
			log.FieldError, err)
	}
}

func groupedDailyTotals(records []core.Expense) []core.DailyTotal {
	groups := cache.GroupBy(
		cache.Filter(records, func(e core.Expense) bool { return !e.Archived }),
		func(e core.Expense) core.Day { return e.Date },
	)

	out := make([]core.DailyTotal, 0, len(groups))
	for date, expenses := range groups {
		cents := cache.SumCents(expenses, func(e core.Expense) int64 { return e.Amount.Cents })
		out = append(out, core.DailyTotal{Date: date, Total: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func totalActive(records []core.Expense) core.Money {
	cents := cache.SumCents(records, func(e core.Expense) int64 {
		if e.Archived {
			return 0
		}
		return e.Amount.Cents
	})
	return core.Money{Cents: cents}
}
