// Package decisions exposes the planner and the decision log over HTTP.
package decisions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// Planner is the decision surface the API serves.
type Planner interface {
	Decide(ctx context.Context, req model.DecisionRequest) (model.Decision, error)
	BuildSchedule(req model.ScheduleRequest) (model.Schedule, error)
}

// NewDecideHandler returns the handler for POST /api/decide. Requests must
// include an Authorization header with "Bearer <token>" when token is
// non-empty.
func NewDecideHandler(p Planner, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req model.DecisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		d, err := p.Decide(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, d)
	})
}

// NewScheduleHandler returns the handler for POST /api/schedule.
func NewScheduleHandler(p Planner, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req model.ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s, err := p.BuildSchedule(req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, s)
	})
}

// NewHealthHandler returns the handler for GET /healthz.
func NewHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
}

func authorized(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+token
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError maps core validation errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrInvalidRequest) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
