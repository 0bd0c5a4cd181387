// Package auth is the identity provider: user accounts, bcrypt-hashed
// credentials and opaque session tokens. Every record-store query elsewhere
// is scoped by the owner id this package resolves.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"masareef/internal/core"
	"masareef/internal/log"
	"masareef/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrWeakPassword       = errors.New("password too short (min 8 characters)")
)

// readyPollInterval is how often WaitReady re-checks the startup flag.
const readyPollInterval = 10 * time.Millisecond

// Service resolves the nullable current owner identity from session tokens.
type Service struct {
	users    store.UserStore
	sessions store.SessionStore
	ttl      time.Duration
	logger   *log.Logger
	now      func() time.Time

	ready atomic.Bool
}

func NewService(users store.UserStore, sessions store.SessionStore, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger.WithComponent(log.ComponentAuth),
		now:      time.Now,
	}
}

// Start performs the initial session-store check and prunes expired
// sessions. Until it completes, WaitReady blocks and the access guard holds
// requests.
func (s *Service) Start(ctx context.Context) error {
	if err := s.sessions.Ping(ctx); err != nil {
		return fmt.Errorf("session store ping: %w", err)
	}
	if err := s.sessions.DeleteExpiredSessions(ctx, s.now().Unix()); err != nil {
		s.logger.WarnContext(ctx, "Failed to prune expired sessions", log.FieldError, err)
	}
	s.ready.Store(true)
	s.logger.InfoContext(ctx, "Identity provider ready")
	return nil
}

// Ready reports whether the initial session check has completed.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// WaitReady polls until the initial session check completes or ctx is done.
func (s *Service) WaitReady(ctx context.Context) error {
	for !s.ready.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyPollInterval):
		}
	}
	return nil
}

// Register creates a new user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, username, password string) (core.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.User{}, ErrInvalidCredentials
	}
	if len(password) < 8 {
		return core.User{}, ErrWeakPassword
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return core.User{}, ErrUsernameTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := core.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", log.FieldOwnerID, u.ID)
	return u, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (core.Session, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, core.ErrNotFound) {
		return core.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return core.Session{}, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return core.Session{}, fmt.Errorf("generate token: %w", err)
	}
	sess := core.Session{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return core.Session{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "User logged in", log.FieldOwnerID, u.ID)
	return sess, nil
}

// Logout deletes the session. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

// CurrentUser resolves the owner behind a session token. Missing or expired
// sessions surface as core.ErrUnauthenticated: "logged out" is an outcome,
// not a failure.
func (s *Service) CurrentUser(ctx context.Context, token string) (core.User, error) {
	if token == "" {
		return core.User{}, core.ErrUnauthenticated
	}

	sess, err := s.sessions.GetSession(ctx, token)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, core.ErrUnauthenticated
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get session: %w", err)
	}

	if !sess.ExpiresAt.After(s.now()) {
		_ = s.sessions.DeleteSession(ctx, token)
		return core.User{}, core.ErrUnauthenticated
	}

	u, err := s.users.GetUser(ctx, sess.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, core.ErrUnauthenticated
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
