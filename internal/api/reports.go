package api

import (
	"context"
	"net/http"

	"github.com/mmynk/ledger/internal/middleware"
	"github.com/mmynk/ledger/internal/models"
)

func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cfg.Reports.DashboardSummary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) thirtyDayExpenses(w http.ResponseWriter, r *http.Request) {
	h.buckets(w, r, h.cfg.Reports.ThirtyDayExpenses)
}

func (h *Handler) thirtyDayIncome(w http.ResponseWriter, r *http.Request) {
	h.buckets(w, r, h.cfg.Reports.ThirtyDayIncome)
}

func (h *Handler) sixtyDayIncome(w http.ResponseWriter, r *http.Request) {
	h.buckets(w, r, h.cfg.Reports.SixtyDayIncomeByCategory)
}

func (h *Handler) buckets(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) ([]models.Bucket, error)) {
	buckets, err := fetch(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(buckets))
}
