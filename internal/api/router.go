// Package api exposes the ledger services as a JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mmynk/ledger/internal/auth"
	"github.com/mmynk/ledger/internal/middleware"
	"github.com/mmynk/ledger/internal/service"
	"github.com/mmynk/ledger/internal/uploads"
)

// APIPrefix is the versioned mount point. Every route is also served from the root.
const APIPrefix = "/api/v1"

// Config wires the router to its collaborators.
type Config struct {
	Users        *service.UserService
	Transactions *service.TransactionService
	Budgets      *service.BudgetService
	Reports      *service.ReportService
	Groups       *service.GroupService
	Expenses     *service.ExpenseService

	JWT            *auth.JWTManager
	UploadDir      string
	MaxUploadBytes int64

	// Metrics and MetricsHandler are optional.
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler

	// Health reports storage readiness. Optional.
	Health func(ctx context.Context) error
}

// Handler serves the JSON API.
type Handler struct {
	cfg Config
}

// NewRouter builds the full HTTP handler, middleware included.
func NewRouter(cfg Config) http.Handler {
	h := &Handler{cfg: cfg}
	r := mux.NewRouter()

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}
	if cfg.UploadDir != "" {
		r.PathPrefix(uploads.PublicPrefix).Handler(
			http.StripPrefix(uploads.PublicPrefix, noDirListing(http.FileServer(http.Dir(cfg.UploadDir)))),
		).Methods(http.MethodGet, http.MethodHead)
	}

	h.routes(r.PathPrefix(APIPrefix).Subrouter())
	h.routes(r)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return middleware.RequestID(middleware.Logging(middleware.CORS(r)))
}

// routes mounts public and authenticated routes on r.
func (h *Handler) routes(r *mux.Router) {
	r.HandleFunc("/register", h.registerUser).Methods(http.MethodPost)
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)

	p := r.NewRoute().Subrouter()
	p.Use(middleware.RequireAuth(h.cfg.JWT, func(w http.ResponseWriter, status int, message string) {
		writeMessage(w, status, message)
	}))

	p.HandleFunc("/user", h.getUser).Methods(http.MethodGet)
	p.HandleFunc("/user/picture", h.updatePicture).Methods(http.MethodPut)

	p.HandleFunc("/transactions", h.createTransaction).Methods(http.MethodPost)
	p.HandleFunc("/transactions", h.listTransactions).Methods(http.MethodGet)
	p.HandleFunc("/transactions/{id}", h.getTransaction).Methods(http.MethodGet)
	p.HandleFunc("/transactions/{id}", h.updateTransaction).Methods(http.MethodPut)
	p.HandleFunc("/transactions/{id}", h.deleteTransaction).Methods(http.MethodDelete)

	p.HandleFunc("/dashboard-summary", h.dashboardSummary).Methods(http.MethodGet)
	p.HandleFunc("/thirty-day-expenses", h.thirtyDayExpenses).Methods(http.MethodGet)
	p.HandleFunc("/thirty-day-income", h.thirtyDayIncome).Methods(http.MethodGet)
	p.HandleFunc("/sixty-day-income", h.sixtyDayIncome).Methods(http.MethodGet)

	p.HandleFunc("/budgets", h.setBudget).Methods(http.MethodPost)
	p.HandleFunc("/budgets", h.listBudgets).Methods(http.MethodGet)
	p.HandleFunc("/budgets/{id}", h.deleteBudget).Methods(http.MethodDelete)

	p.HandleFunc("/groups", h.createGroup).Methods(http.MethodPost)
	p.HandleFunc("/groups", h.listGroups).Methods(http.MethodGet)
	p.HandleFunc("/groups/{id}", h.getGroup).Methods(http.MethodGet)
	p.HandleFunc("/groups/{id}", h.editGroup).Methods(http.MethodPut)
	p.HandleFunc("/groups/{id}", h.deleteGroup).Methods(http.MethodDelete)
	p.HandleFunc("/groups/{id}/members", h.addMember).Methods(http.MethodPut, http.MethodPost)
	p.HandleFunc("/groups/{id}/members/{memberId}", h.removeMember).Methods(http.MethodDelete)

	p.HandleFunc("/groups/{groupId}/expenses", h.createExpense).Methods(http.MethodPost)
	p.HandleFunc("/groups/{groupId}/expenses", h.listExpenses).Methods(http.MethodGet)
	p.HandleFunc("/groups/{groupId}/expenses/{expenseId}", h.updateExpense).Methods(http.MethodPut)
	p.HandleFunc("/groups/{groupId}/expenses/{expenseId}", h.deleteExpense).Methods(http.MethodDelete)

	// Legacy paths kept for older clients.
	p.HandleFunc("/add-transaction", h.createTransaction).Methods(http.MethodPost)
	p.HandleFunc("/get-transactions", h.listTransactions).Methods(http.MethodGet)
	p.HandleFunc("/update-transaction/{id}", h.updateTransaction).Methods(http.MethodPut)
	p.HandleFunc("/delete-transaction/{id}", h.deleteTransaction).Methods(http.MethodDelete)
	p.HandleFunc("/set-budget", h.setBudget).Methods(http.MethodPost)
	p.HandleFunc("/get-budgets", h.listBudgets).Methods(http.MethodGet)
	p.HandleFunc("/delete-budget/{id}", h.deleteBudget).Methods(http.MethodDelete)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Health != nil {
		if err := h.cfg.Health(r.Context()); err != nil {
			writeMessage(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// noDirListing hides directory indexes from the file server.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
