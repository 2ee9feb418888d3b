package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/ledger/internal/middleware"
	"github.com/mmynk/ledger/internal/models"
)

type setBudgetRequest struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
}

type setBudgetResponse struct {
	Message string         `json:"message"`
	Budget  *models.Budget `json:"budget"`
}

func (h *Handler) setBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	budget, err := h.cfg.Budgets.SetBudget(r.Context(), middleware.GetUserID(r.Context()), req.Category, req.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setBudgetResponse{Message: "Budget Set Successfully", Budget: budget})
}

func (h *Handler) listBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.cfg.Budgets.ListBudgets(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(budgets))
}

func (h *Handler) deleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Budgets.DeleteBudget(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Budget Deleted")
}
