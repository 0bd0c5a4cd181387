package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"masareef/internal/core"
)

type fakeSalaryStore struct {
	mu        sync.Mutex
	rows      map[string]core.Salary
	listCalls int

	listStarted chan struct{}
	listGate    chan struct{}

	// captureEarly makes a gated List return the rows as they were when the
	// call started, like a store read that finished before later writes.
	captureEarly bool
}

func newFakeSalaryStore() *fakeSalaryStore {
	return &fakeSalaryStore{rows: make(map[string]core.Salary)}
}

func (f *fakeSalaryStore) ListSalaries(_ context.Context, ownerID string) ([]core.Salary, error) {
	f.mu.Lock()
	f.listCalls++
	started := f.listStarted
	gate := f.listGate
	var early []core.Salary
	if f.captureEarly {
		early = f.rowsFor(ownerID)
	}
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		<-gate
	}
	if f.captureEarly {
		return early, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rowsFor(ownerID), nil
}

// rowsFor must be called with f.mu held.
func (f *fakeSalaryStore) rowsFor(ownerID string) []core.Salary {
	var out []core.Salary
	for _, s := range f.rows {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeSalaryStore) GetSalary(_ context.Context, ownerID, id string) (core.Salary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok || s.OwnerID != ownerID {
		return core.Salary{}, core.ErrNotFound
	}
	return s, nil
}

func (f *fakeSalaryStore) CreateSalary(_ context.Context, s core.Salary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[s.ID] = s
	return nil
}

func (f *fakeSalaryStore) UpdateSalary(_ context.Context, s core.Salary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.rows[s.ID]; !ok || existing.OwnerID != s.OwnerID {
		return core.ErrNotFound
	}
	f.rows[s.ID] = s
	return nil
}

func (f *fakeSalaryStore) DeleteSalary(_ context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.rows[id]; !ok || s.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func newTestSalaryService(st *fakeSalaryStore) *SalaryService {
	svc := NewSalaryService(st, nil, nil)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("sal-%d", n)
	}
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSalaryAddAndTotal(t *testing.T) {
	svc := newTestSalaryService(newFakeSalaryStore())
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", NewSalaryInput{Amount: core.Money{Cents: 500000}, Month: "2026-09"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, _ = svc.Add(ctx, "u1", NewSalaryInput{Amount: core.Money{Cents: 25000}, Month: "2026-09", Notes: "bonus"})

	if got := svc.Total("u1"); got.Cents != 525000 {
		t.Fatalf("total: %d", got.Cents)
	}
	if got := svc.TotalByMonth("u1", "2026-09"); got.Cents != 525000 {
		t.Fatalf("month total: %d", got.Cents)
	}
	if got := svc.TotalByMonth("u1", "2026-08"); got.Cents != 0 {
		t.Fatalf("empty month total: %d", got.Cents)
	}
}

func TestSalaryAddRejectsNegativeAmount(t *testing.T) {
	svc := newTestSalaryService(newFakeSalaryStore())
	_, err := svc.Add(context.Background(), "u1", NewSalaryInput{Amount: core.Money{Cents: -1}, Month: "2026-09"})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSalariesByMonthGroupsNewestFirst(t *testing.T) {
	svc := newTestSalaryService(newFakeSalaryStore())
	ctx := context.Background()

	_, _ = svc.Add(ctx, "u1", NewSalaryInput{Amount: core.Money{Cents: 100}, Month: "2026-07"})
	_, _ = svc.Add(ctx, "u1", NewSalaryInput{Amount: core.Money{Cents: 200}, Month: "2026-09"})
	_, _ = svc.Add(ctx, "u1", NewSalaryInput{Amount: core.Money{Cents: 300}, Month: "2026-09"})

	groups := svc.SalariesByMonth("u1")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Month != "2026-09" || groups[0].Total.Cents != 500 {
		t.Fatalf("first group wrong: %+v", groups[0])
	}
	if len(groups[0].Salaries) != 2 {
		t.Fatalf("first group entries: %d", len(groups[0].Salaries))
	}
	if groups[1].Month != "2026-07" || groups[1].Total.Cents != 100 {
		t.Fatalf("second group wrong: %+v", groups[1])
	}

	months := svc.Months("u1")
	if len(months) != 2 || months[0] != "2026-09" || months[1] != "2026-07" {
		t.Fatalf("months: %v", months)
	}
}

func TestSalaryUpdateMovesBetweenMonths(t *testing.T) {
	svc := newTestSalaryService(newFakeSalaryStore())
	ctx := context.Background()

	created, _ := svc.Add(ctx, "u1", NewSalaryInput{Amount: core.Money{Cents: 100}, Month: "2026-08"})

	month := core.Month("2026-09")
	updated, err := svc.Update(ctx, "u1", SalaryPatch{ID: created.ID, Month: &month})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Month != "2026-09" || updated.Amount.Cents != 100 {
		t.Fatalf("patch not applied: %+v", updated)
	}

	if got := svc.TotalByMonth("u1", "2026-08"); got.Cents != 0 {
		t.Fatalf("entry still counted in old month: %d", got.Cents)
	}
	if got := svc.TotalByMonth("u1", "2026-09"); got.Cents != 100 {
		t.Fatalf("entry missing from new month: %d", got.Cents)
	}
}

func TestSalaryRemoveRefreshes(t *testing.T) {
	svc := newTestSalaryService(newFakeSalaryStore())
	ctx := context.Background()

	created, _ := svc.Add(ctx, "u1", NewSalaryInput{Amount: core.Money{Cents: 100}, Month: "2026-09"})
	if err := svc.Remove(ctx, "u1", created.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := svc.Salaries("u1"); len(got) != 0 {
		t.Fatalf("snapshot not emptied after remove: %d records", len(got))
	}
	if err := svc.Remove(ctx, "u1", created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestSalaryMutationRefreshSkipsPreCommitFetch(t *testing.T) {
	st := newFakeSalaryStore()
	st.captureEarly = true
	st.listStarted = make(chan struct{}, 2)
	st.listGate = make(chan struct{})
	svc := newTestSalaryService(st)
	ctx := context.Background()

	refreshDone := make(chan error, 1)
	go func() { refreshDone <- svc.Refresh(ctx, "u1") }()
	<-st.listStarted

	var created core.Salary
	addDone := make(chan error, 1)
	go func() {
		s, err := svc.Add(ctx, "u1", NewSalaryInput{Amount: core.Money{Cents: 500000}, Month: "2026-09"})
		created = s
		addDone <- err
	}()
	<-st.listStarted

	close(st.listGate)
	if err := <-refreshDone; err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := <-addDone; err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := svc.Salaries("u1")
	if len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("snapshot stale after Add returned: %+v", got)
	}
}

func TestSalaryEnsureLoadedIsOneShot(t *testing.T) {
	st := newFakeSalaryStore()
	st.rows["s1"] = core.Salary{ID: "s1", OwnerID: "u1", Amount: core.Money{Cents: 100}, Month: "2026-09"}
	svc := newTestSalaryService(st)
	ctx := context.Background()

	for range 3 {
		if err := svc.EnsureLoaded(ctx, "u1"); err != nil {
			t.Fatalf("EnsureLoaded: %v", err)
		}
	}

	st.mu.Lock()
	calls := st.listCalls
	st.mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected one store list, got %d", calls)
	}
	if got := svc.Salaries("u1"); len(got) != 1 {
		t.Fatalf("snapshot not populated: %d records", len(got))
	}
}
