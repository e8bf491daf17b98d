package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// PlanGenerator produces a study plan for a list of subjects.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, subjects []string) (string, error)
}

type PlannerHandler struct {
	planner PlanGenerator
}

func NewPlannerHandler(planner PlanGenerator) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

type generatePlanRequest struct {
	Subjects []string `json:"subjects"`
}

func (h *PlannerHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req generatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := h.planner.GeneratePlan(ctx, req.Subjects)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"plan": plan})
}
