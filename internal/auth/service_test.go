package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"masareef/internal/core"
	"masareef/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	svc := NewService(st, st, time.Hour, nil)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return svc, st
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "  ahmed  ", "correct horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "ahmed" {
		t.Fatalf("username not trimmed: %q", u.Username)
	}
	if u.PasswordHash == "correct horse" || u.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}

	sess, err := svc.Login(ctx, "ahmed", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Fatalf("token length %d, want 64 hex chars", len(sess.Token))
	}

	got, err := svc.CurrentUser(ctx, sess.Token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("resolved wrong user: %s vs %s", got.ID, u.ID)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Register(context.Background(), "ahmed", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ahmed", "password-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "ahmed", "password-2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ahmed", "password-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login(ctx, "ahmed", "password-2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "password-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestExpiredSessionIsUnauthenticated(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ahmed", "password-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	sess, err := svc.Login(ctx, "ahmed", "password-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	svc.now = func() time.Time { return sess.ExpiresAt.Add(time.Second) }

	if _, err := svc.CurrentUser(ctx, sess.Token); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	// expired session was deleted on access
	if _, err := st.GetSession(ctx, sess.Token); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expired session still stored: %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ahmed", "password-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	sess, err := svc.Login(ctx, "ahmed", "password-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.CurrentUser(ctx, sess.Token); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("session survived logout: %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("empty token logout should be a no-op: %v", err)
	}
}

func TestCurrentUserEmptyToken(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.CurrentUser(context.Background(), ""); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestWaitReadyBlocksUntilStart(t *testing.T) {
	st := memory.NewStore()
	svc := NewService(st, st, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := svc.WaitReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitReady before Start: %v", err)
	}

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !svc.Ready() {
		t.Fatal("not ready after Start")
	}
	if err := svc.WaitReady(context.Background()); err != nil {
		t.Fatalf("WaitReady after Start: %v", err)
	}
}
