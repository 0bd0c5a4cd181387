package http

import (
	"net/http"

	"masareef/internal/core"
	"masareef/internal/services"
)

type updateSettingsRequest struct {
	DailyLimit    *core.Money `json:"dailyLimit"`
	WeeklyLimit   *core.Money `json:"weeklyLimit"`
	AlertsEnabled *bool       `json:"alertsEnabled"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.settings.Load(r.Context(), ownerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsJSON(cfg))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	updated, err := s.settings.Update(r.Context(), ownerID(r), services.SettingsPatch{
		DailyLimit:    req.DailyLimit,
		WeeklyLimit:   req.WeeklyLimit,
		AlertsEnabled: req.AlertsEnabled,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingsJSON(updated))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if err := s.expenses.EnsureLoaded(r.Context(), owner); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.salaries.EnsureLoaded(r.Context(), owner); err != nil {
		s.writeError(w, r, err)
		return
	}

	dash, err := s.dashboard.Evaluate(r.Context(), owner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dash)
}
