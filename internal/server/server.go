// Package server exposes the budget service as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlefebvre/enveloppe/internal/ledger"
	"github.com/mlefebvre/enveloppe/internal/models"
	"github.com/mlefebvre/enveloppe/internal/service"
)

// Server routes HTTP requests to the budget service.
type Server struct {
	budget *service.BudgetService
}

// New creates a Server over the given service.
func New(budget *service.BudgetService) *Server {
	return &Server{budget: budget}
}

// Routes registers all API endpoints on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/debts", s.handleListDebts)
	mux.HandleFunc("POST /api/debts", s.handleAddDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", s.handleRemoveDebt)
	mux.HandleFunc("POST /api/paycheck", s.handleDistribute)
	mux.HandleFunc("PUT /api/containers/{name}/balance", s.handleUpdateBalance)
	mux.HandleFunc("GET /api/allocations", s.handleGetAllocations)
	mux.HandleFunc("PUT /api/allocations", s.handleSetAllocations)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the known validation errors to 4xx codes; anything else is
// a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrMissingContainer):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrPercentageSum),
		errors.Is(err, ledger.ErrAllocationMismatch),
		errors.Is(err, service.ErrNotEditable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUnknownContainer):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.budget.Overview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.budget.ListDebts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debts)
}

func (s *Server) handleAddDebt(w http.ResponseWriter, r *http.Request) {
	var req service.AddDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	debt, err := s.budget.AddDebt(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, debt)
}

func (s *Server) handleRemoveDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.budget.RemoveDebt(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Income string `json:"income"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	res, err := s.budget.Distribute(r.Context(), req.Income)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Balance string `json:"balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := s.budget.UpdateBalance(r.Context(), r.PathValue("name"), req.Balance); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAllocations(w http.ResponseWriter, r *http.Request) {
	table, err := s.budget.GetAllocations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleSetAllocations(w http.ResponseWriter, r *http.Request) {
	var table models.AllocationTable
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := s.budget.SetAllocations(r.Context(), table); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
