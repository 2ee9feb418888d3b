package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/ledger/internal/middleware"
	"github.com/mmynk/ledger/internal/service"
)

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var in service.ExpenseInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	expense, err := h.cfg.Expenses.CreateExpense(r.Context(), mux.Vars(r)["groupId"], middleware.GetUserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.cfg.Expenses.ListExpenses(r.Context(), mux.Vars(r)["groupId"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(expenses))
}

func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	var patch service.ExpensePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	vars := mux.Vars(r)
	expense, err := h.cfg.Expenses.UpdateExpense(r.Context(), vars["groupId"], vars["expenseId"], middleware.GetUserID(r.Context()), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.cfg.Expenses.DeleteExpense(r.Context(), vars["groupId"], vars["expenseId"], middleware.GetUserID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Expense deleted successfully")
}
