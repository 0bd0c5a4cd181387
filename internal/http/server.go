// Package http is the JSON API surface. Handlers stay thin: parse, call a
// service, render. All aggregation lives in the services layer.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"masareef/internal/auth"
	"masareef/internal/log"
	"masareef/internal/services"
)

type Server struct {
	http.Server

	auth      *auth.Service
	expenses  *services.ExpenseService
	salaries  *services.SalaryService
	settings  *services.SettingsService
	dashboard *services.DashboardService

	rateLimiter  *rateLimiter
	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, authSvc *auth.Service, expenses *services.ExpenseService, salaries *services.SalaryService, settings *services.SettingsService, dashboard *services.DashboardService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		auth:        authSvc,
		expenses:    expenses,
		salaries:    salaries,
		settings:    settings,
		dashboard:   dashboard,
		rateLimiter: newRateLimiter(logger.WithComponent(log.ComponentHTTP)),
		logger:      logger.WithComponent(log.ComponentHTTP),
	}
	s.Server.Handler = log.Middleware(logger)(mux)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/register", s.guard(s.handleRegister))
	mux.HandleFunc("POST /api/login", s.guard(s.handleLogin))
	mux.HandleFunc("POST /api/logout", s.guard(s.handleLogout))

	mux.HandleFunc("GET /api/expenses", s.authed(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.authed(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/day/{date}", s.authed(s.handleExpensesByDay))
	mux.HandleFunc("GET /api/expenses/{id}", s.authed(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.authed(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.authed(s.handleDeleteExpense))
	mux.HandleFunc("POST /api/expenses/{id}/archive", s.authed(s.handleArchiveExpense))
	mux.HandleFunc("GET /api/history", s.authed(s.handleHistory))

	mux.HandleFunc("GET /api/salaries", s.authed(s.handleListSalaries))
	mux.HandleFunc("POST /api/salaries", s.authed(s.handleCreateSalary))
	mux.HandleFunc("GET /api/salaries/months", s.authed(s.handleSalaryMonths))
	mux.HandleFunc("GET /api/salaries/{id}", s.authed(s.handleGetSalary))
	mux.HandleFunc("PUT /api/salaries/{id}", s.authed(s.handleUpdateSalary))
	mux.HandleFunc("DELETE /api/salaries/{id}", s.authed(s.handleDeleteSalary))

	mux.HandleFunc("GET /api/settings", s.authed(s.handleGetSettings))
	mux.HandleFunc("PUT /api/settings", s.authed(s.handleUpdateSettings))

	mux.HandleFunc("GET /api/dashboard", s.authed(s.handleDashboard))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Ready() {
		http.Error(w, "starting", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
