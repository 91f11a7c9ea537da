package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/prencipemarco/superquote-web/internal/models"
	"github.com/prencipemarco/superquote-web/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	token, err := s.auth.Login(req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Revoke(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPlays(w http.ResponseWriter, r *http.Request) {
	plays, err := s.plays.ListPlays(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list plays")
		writeError(w, http.StatusInternalServerError, "failed to list plays")
		return
	}
	if plays == nil {
		plays = []*models.Play{}
	}
	writeJSON(w, http.StatusOK, plays)
}

func (s *Server) handleCreatePlay(w http.ResponseWriter, r *http.Request) {
	var input service.PlayInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	play, err := s.plays.CreatePlay(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, play)
}

func (s *Server) handleUpdatePlay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid play id")
		return
	}

	var input service.PlayInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	play, err := s.plays.UpdatePlay(r.Context(), id, input)
	switch {
	case errors.Is(err, models.ErrPlayNotFound):
		writeError(w, http.StatusNotFound, "play not found")
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeJSON(w, http.StatusOK, play)
	}
}

func (s *Server) handleDeletePlay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid play id")
		return
	}

	switch err := s.plays.DeletePlay(r.Context(), id); {
	case errors.Is(err, models.ErrPlayNotFound):
		writeError(w, http.StatusNotFound, "play not found")
	case err != nil:
		s.logger.WithError(err).Error("Failed to delete play")
		writeError(w, http.StatusInternalServerError, "failed to delete play")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleBalanceChart(w http.ResponseWriter, r *http.Request) {
	window := 5
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid window")
			return
		}
		window = parsed
	}

	points, err := s.charts.BalanceSeries(r.Context(), window)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build balance chart")
		writeError(w, http.StatusInternalServerError, "failed to build chart")
		return
	}
	if points == nil {
		points = []service.BalancePoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleOutcomeChart(w http.ResponseWriter, r *http.Request) {
	slices, err := s.charts.OutcomeBreakdown(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to build outcome chart")
		writeError(w, http.StatusInternalServerError, "failed to build chart")
		return
	}
	writeJSON(w, http.StatusOK, slices)
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	months, err := s.charts.MonthlyProfits(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to build monthly chart")
		writeError(w, http.StatusInternalServerError, "failed to build chart")
		return
	}
	if months == nil {
		months = []service.MonthlyProfit{}
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="plays.json"`)
	if err := s.importExport.ExportJSON(r.Context(), w); err != nil {
		s.logger.WithError(err).Error("Failed to export journal")
	}
}

func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	count, err := s.importExport.ImportJSON(r.Context(), r.Body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="plays.csv"`)
	if err := s.importExport.ExportCSV(r.Context(), w); err != nil {
		s.logger.WithError(err).Error("Failed to export journal as CSV")
	}
}
