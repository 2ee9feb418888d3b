package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/ledger/internal/middleware"
	"github.com/mmynk/ledger/internal/service"
)

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in service.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := h.cfg.Transactions.CreateTransaction(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// listTransactions accepts the optional query parameters type, category and dateRange.
func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	txs, err := h.cfg.Transactions.ListTransactions(r.Context(), middleware.GetUserID(r.Context()), service.ListQuery{
		Type:      q.Get("type"),
		Category:  q.Get("category"),
		DateRange: q.Get("dateRange"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(txs))
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.cfg.Transactions.GetTransaction(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var in service.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := h.cfg.Transactions.UpdateTransaction(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Transactions.DeleteTransaction(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Transaction Deleted")
}
