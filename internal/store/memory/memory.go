// Package memory is the in-memory record store. It backs tests and the
// default development configuration; data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"masareef/internal/core"
	"masareef/internal/store"
)

func init() {
	store.Register(store.MemoryBackend, func(store.Config) (store.Backend, error) {
		return NewStore(), nil
	})
}

// Store keeps every collection in mutex-guarded maps keyed by record ID.
// All reads hand out copies so callers can never mutate internal state.
type Store struct {
	mu       sync.Mutex
	expenses map[string]core.Expense
	salaries map[string]core.Salary
	settings map[string]core.Settings
	users    map[string]core.User
	sessions map[string]core.Session
}

var _ store.Backend = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		expenses: make(map[string]core.Expense),
		salaries: make(map[string]core.Salary),
		settings: make(map[string]core.Settings),
		users:    make(map[string]core.User),
		sessions: make(map[string]core.Session),
	}
}

func (s *Store) ListExpenses(_ context.Context, ownerID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Expense, 0)
	for _, e := range s.expenses {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, ownerID, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses[e.ID] = e
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[e.ID]
	if !ok || existing.OwnerID != e.OwnerID {
		return core.ErrNotFound
	}
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) ListSalaries(_ context.Context, ownerID string) ([]core.Salary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Salary, 0)
	for _, sal := range s.salaries {
		if sal.OwnerID == ownerID {
			out = append(out, sal)
		}
	}
	return out, nil
}

func (s *Store) GetSalary(_ context.Context, ownerID, id string) (core.Salary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sal, ok := s.salaries[id]
	if !ok || sal.OwnerID != ownerID {
		return core.Salary{}, core.ErrNotFound
	}
	return sal, nil
}

func (s *Store) CreateSalary(_ context.Context, sal core.Salary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.salaries[sal.ID] = sal
	return nil
}

func (s *Store) UpdateSalary(_ context.Context, sal core.Salary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.salaries[sal.ID]
	if !ok || existing.OwnerID != sal.OwnerID {
		return core.ErrNotFound
	}
	s.salaries[sal.ID] = sal
	return nil
}

func (s *Store) DeleteSalary(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sal, ok := s.salaries[id]
	if !ok || sal.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.salaries, id)
	return nil
}

func (s *Store) LoadSettings(_ context.Context, ownerID string) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.settings[ownerID]
	if !ok {
		return core.Settings{}, core.ErrNotFound
	}
	return cfg, nil
}

func (s *Store) SaveSettings(_ context.Context, cfg core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[cfg.OwnerID] = cfg
	return nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (s *Store) CreateSession(_ context.Context, sess core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.Token] = sess
	return nil
}

func (s *Store) GetSession(_ context.Context, token string) (core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return core.Session{}, core.ErrNotFound
	}
	return sess, nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *Store) DeleteExpiredSessions(_ context.Context, now int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, sess := range s.sessions {
		if sess.ExpiresAt.Unix() <= now {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
